package state

import (
	"context"
	"errors"
	"fmt"
)

// State is a single named value published to a sink. Value is an int, a
// float64, a string or nil when the value is not known yet.
type State struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Sink receives the states produced by a poll.
//
// note: fault injection point
type Sink interface {
	Publish(ctx context.Context, states []State) error
}

// Key builds the key a field is published under, ex. iliad_account.credit_sms
func Key(domain, field string) string {
	return fmt.Sprintf("%s.credit_%s", domain, field)
}

// Fanout publishes to every sink in order, a failing sink does not stop the
// others from receiving the states.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, states []State) error {
	var errs []error
	for _, sink := range f {
		err := sink.Publish(ctx, states)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
