package cmd

import (
	"flag"

	"github.com/etnz/refdata"
	"github.com/etnz/refdata/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var periods = predict.Set{"day", "week", "month", "quarter", "year"}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	currencies := make(predict.Set, 0, len(refdata.Currencies()))
	for _, c := range refdata.Currencies() {
		currencies = append(currencies, string(c))
	}
	topics, _ := docs.GetAllTopics()

	global := map[string]complete.Predictor{}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		global[f.Name] = predict.Something
	})
	global["config"] = predict.Files("*.yaml")
	global["log-file"] = predict.Files("*")
	global["log-level"] = predict.Set{"debug", "info", "warn", "error"}

	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"rates": {
				Flags: map[string]complete.Predictor{
					"from":   predict.Something,
					"to":     predict.Something,
					"period": periods,
					"json":   predict.Nothing,
				},
				Args: currencies,
			},
			"security": {
				Flags: map[string]complete.Predictor{
					"json": predict.Nothing,
				},
				Args: predict.Something,
			},
			"topic": {
				Args: predict.Set(append(topics, "*")),
			},
		},
	}
}
