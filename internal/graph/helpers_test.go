package graph

import (
	"encoding/json"
	"io"
	"log/slog"
)

func rawMessage(s string) *json.RawMessage {
	m := json.RawMessage(s)
	return &m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
