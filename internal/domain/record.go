package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"recordstore/internal/model"
)

const (
	MessageItemNotFound  = "Item não encontrado"
	MessageRouteNotFound = "Rota não encontrada"
	MessageInternalError = "Erro interno do servidor"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrMalformedPayload = errors.New("malformed payload")
)

type IDPolicy string

const (
	// IDPolicyLength assigns len(store)+1. Ids can repeat after a delete.
	IDPolicyLength IDPolicy = "length"
	// IDPolicySequence assigns one past the highest id ever handed out.
	IDPolicySequence IDPolicy = "sequence"
)

func IsValidIDPolicy(value string) bool {
	switch IDPolicy(value) {
	case IDPolicyLength, IDPolicySequence:
		return true
	default:
		return false
	}
}

type MalformedPayloadPolicy string

const (
	MalformedPayloadRespond MalformedPayloadPolicy = "respond"
	MalformedPayloadFatal   MalformedPayloadPolicy = "fatal"
)

func IsValidMalformedPayloadPolicy(value string) bool {
	switch MalformedPayloadPolicy(value) {
	case MalformedPayloadRespond, MalformedPayloadFatal:
		return true
	default:
		return false
	}
}

// SeedRecords returns the records every store starts with.
func SeedRecords() []model.Record {
	return []model.Record{
		{"id": int64(1), "name": "João Batista", "age": 25},
		{"id": int64(2), "name": "Maria Silva", "age": 30},
	}
}

// ParsePathID reads the leading integer of a path segment, so "12abc" is 12.
// A "0x" prefix switches to hex ("0x1f" is 31). Segments that do not start
// with a number report false.
func ParsePathID(raw string) (int64, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Replace builds the record stored by a PUT: the payload with id forced to the path id.
func Replace(id int64, payload model.Record) model.Record {
	return payload.WithID(id)
}

// Merge builds the record stored by a PATCH. Payload keys win, id included, so a
// patch can renumber a record or leave it without an integer id.
func Merge(existing, payload model.Record) model.Record {
	out := existing.Clone()
	for k, v := range payload {
		out[k] = v
	}
	return out
}

// DecodePayload parses a request body as a single JSON object, keeping number precision.
// Anything else is reported as ErrMalformedPayload.
func DecodePayload(body []byte) (model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var record model.Record
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedPayload)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedPayload)
	}
	return record, nil
}
