package store

import (
	"encoding/json"
	"fmt"
)

// marshalOperands converts an operand list to JSON TEXT for storage.
// A nil list is stored as [] so reads never see null.
func marshalOperands(operands []int) (string, error) {
	if operands == nil {
		operands = []int{}
	}
	data, err := json.Marshal(operands)
	if err != nil {
		return "", fmt.Errorf("marshal operands: %w", err)
	}
	return string(data), nil
}

// unmarshalOperands parses JSON TEXT to an operand list.
func unmarshalOperands(data string) ([]int, error) {
	operands := []int{}
	if data == "" {
		return operands, nil
	}
	if err := json.Unmarshal([]byte(data), &operands); err != nil {
		return nil, fmt.Errorf("unmarshal operands: %w", err)
	}
	return operands, nil
}
