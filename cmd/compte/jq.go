package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/itchyny/gojq"

	"github.com/brojonat/compte/client"
)

type jqFilters []*gojq.Code

func compileJQFilters(exprs []string) (jqFilters, error) {
	compiled := make(jqFilters, len(exprs))
	for i, expr := range exprs {
		query, err := gojq.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse jq filter %q: %w", expr, err)
		}
		compiled[i], err = gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq filter %q: %w", expr, err)
		}
	}
	return compiled, nil
}

// match runs every filter against the transaction's JSON form. All must be truthy.
func (f jqFilters) match(txn client.Transaction, logger *slog.Logger) bool {
	if len(f) == 0 {
		return true
	}

	input, err := toJQInput(txn)
	if err != nil {
		logger.Debug("jq input conversion failed", "error", err)
		return false
	}

	for _, code := range f {
		iter := code.Run(input)
		v, ok := iter.Next()
		if !ok {
			return false
		}
		if err, isErr := v.(error); isErr {
			logger.Debug("jq filter error", "error", err)
			return false
		}
		if !isTruthy(v) {
			return false
		}
	}
	return true
}

// toJQInput converts txn to the generic map gojq operates on.
func toJQInput(txn client.Transaction) (interface{}, error) {
	data, err := json.Marshal(txn)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// isTruthy checks if a jq result value is truthy.
// In jq, false and null are falsy, everything else is truthy.
func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
