// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import (
	"fmt"
	"strconv"
)

// EncodeProblem creates a complete wire message for a list of holds.
// The "~D" option prefix is added when additional is set.
func EncodeProblem(holds []Hold, additional bool) ([]byte, error) {
	msg := make([]byte, 0, 4+len(holds)*5)

	if additional {
		msg = append(msg, OptionByte, AdditionalByte)
	}
	msg = append(msg, StartByte, DelimiterByte)
	payloadStart := len(msg)

	for i, h := range holds {
		c := h.Kind.Byte()
		if c == 0 {
			return nil, fmt.Errorf("hold %d: cannot encode kind %s", i, h.Kind)
		}
		if h.Index < 0 {
			return nil, fmt.Errorf("hold %d: negative index %d", i, h.Index)
		}
		if i > 0 {
			msg = append(msg, SeparatorByte)
		}
		msg = append(msg, c)
		msg = strconv.AppendInt(msg, int64(h.Index), 10)
	}

	if n := len(msg) - payloadStart; n > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", n, MaxPayloadSize)
	}

	msg = append(msg, DelimiterByte)
	return msg, nil
}

// ParseHoldList decodes tokens such as "S12" given on a command line
func ParseHoldList(tokens []string) ([]Hold, error) {
	holds := make([]Hold, 0, len(tokens))
	for _, token := range tokens {
		h, err := ParseHold(token)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, nil
}
