// Package refdata provides the financial reference data shared by the market data
// providers of this module.
//
// It defines the data contracts:
//   - CurrencyCode: ISO 4217 currency codes, plus the GBX minor unit (pence) that
//     some London listed securities are quoted in.
//   - Security: what is known about a financial instrument, either a Stock or an
//     ETF (funds included) for which we know whether distributions are reinvested.
//   - the error kinds returned by the providers (TransportError, ShapeError,
//     NotFoundError, UnknownQuoteTypeError).
//   - Config: the hostnames of the remote services, so that requests can be routed
//     through a proxy.
//
// The providers themselves live in sub packages:
//   - ecb: caches daily exchange rates against EUR from the ECB data warehouse.
//   - yahoo: caches security metadata resolved from an ISIN through Yahoo Finance.
package refdata
