package ecb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/refdata"
	"github.com/etnz/refdata/date"
)

/*
A SDMX-JSON "dataonly" response with dimensionAtObservation=AllDimensions looks like:

	{
	    "dataSets": [{
	        "observations": {
	            "0:0:0:0:0:0": [0.8582],
	            "0:0:0:0:0:1": [0.8601]
	        }
	    }],
	    "structure": {
	        "dimensions": {
	            "observation": [
	                {"id": "FREQ", "values": [{"id": "D"}]},
	                {"id": "CURRENCY", "values": [{"id": "GBP"}]},
	                {"id": "CURRENCY_DENOM", "values": [{"id": "EUR"}]},
	                {"id": "EXR_TYPE", "values": [{"id": "SP00"}]},
	                {"id": "EXR_SUFFIX", "values": [{"id": "A"}]},
	                {"id": "TIME_PERIOD", "values": [
	                    {"id": "2024-01-02", "name": "2024-01-02"},
	                    {"id": "2024-01-03", "name": "2024-01-03"}
	                ]}
	            ]
	        }
	    }
	}

Observation keys are the positional coordinates of the observation along every dimension.
*/

const timePeriodID = "TIME_PERIOD"

// observation is a single daily rate.
type observation struct {
	day  date.Date
	rate float64
}

// jget evaluates a jsonpath and reports any failure as a ShapeError.
func jget(path string, data any, key string) (any, error) {
	v, err := jsonpath.Get(path, data)
	if err != nil {
		return nil, &refdata.ShapeError{Key: key, Reason: fmt.Sprintf("cannot read %s: %v", path, err), Body: data}
	}
	return v, nil
}

// parseSeries extracts the daily observations of a single series.
//
// Days listed in TIME_PERIOD without an observation, or with a null one, are skipped.
func parseSeries(data any, key string) ([]observation, error) {
	shapeErr := func(format string, args ...any) error {
		return &refdata.ShapeError{Key: key, Reason: fmt.Sprintf(format, args...), Body: data}
	}

	jdims, err := jget("$.structure.dimensions.observation", data, key)
	if err != nil {
		return nil, err
	}
	dims, ok := jdims.([]any)
	if !ok {
		return nil, shapeErr("observation dimensions is not a list")
	}

	// coordinates of the first observation, the TIME_PERIOD one is replaced for each day.
	coords := make([]string, len(dims))
	timeAt := -1
	var periods []any
	for i, jdim := range dims {
		dim, _ := jdim.(map[string]any)
		values, _ := dim["values"].([]any)
		if id, _ := dim["id"].(string); id == timePeriodID {
			timeAt, periods = i, values
			continue
		}
		// the series is fully qualified, any other dimension has a single value.
		if len(values) != 1 {
			return nil, shapeErr("dimension %v has %d values, want 1", dim["id"], len(values))
		}
		coords[i] = "0"
	}
	if timeAt < 0 {
		return nil, shapeErr("could not find time periods")
	}

	jobs, err := jget("$.dataSets[0].observations", data, key)
	if err != nil {
		return nil, err
	}
	observations, ok := jobs.(map[string]any)
	if !ok {
		return nil, shapeErr("observations is not an object")
	}

	res := make([]observation, 0, len(periods))
	for i, jperiod := range periods {
		period, _ := jperiod.(map[string]any)
		name, _ := period["name"].(string)
		if name == "" {
			name, _ = period["id"].(string)
		}
		on, err := time.Parse(date.DateFormat, name)
		if err != nil {
			return nil, shapeErr("invalid time period %q: %v", name, err)
		}

		day := date.FromTime(on)

		coords[timeAt] = strconv.Itoa(i)
		obsKey := strings.Join(coords, ":")
		values, ok := observations[obsKey].([]any)
		if !ok || len(values) == 0 || values[0] == nil {
			continue
		}
		rate, ok := values[0].(float64)
		if !ok {
			return nil, shapeErr("observation %s is not a number: %v", obsKey, values[0])
		}
		res = append(res, observation{day: day, rate: rate})
	}
	return res, nil
}
