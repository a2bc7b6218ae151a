package models

import "testing"

func TestRequestStateTerminal(t *testing.T) {
	terminal := []string{RequestStateLate, RequestStateFailed, RequestStateCompleted}
	for _, state := range terminal {
		if !RequestStateTerminal(state) {
			t.Fatalf("%s not terminal", state)
		}
	}
	open := []string{RequestStatePending, RequestStateConfirmed, ""}
	for _, state := range open {
		if RequestStateTerminal(state) {
			t.Fatalf("%s terminal", state)
		}
	}
}
