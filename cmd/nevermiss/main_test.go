package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/notexe/nevermiss/internal/reminder"
)

func TestPrintDraft(t *testing.T) {
	d := &reminder.Draft{
		Title:      "Doctor appointment",
		Category:   reminder.CategoryAppointment,
		Date:       reminder.StringPtr("2024-01-04"),
		Priority:   reminder.PriorityHigh,
		Confidence: 0.9,
	}

	tests := map[string][]string{
		"json": {`"title": "Doctor appointment"`, `"time": null`, `"date": "2024-01-04"`},
		"yaml": {"title: Doctor appointment", "time: null", `date: "2024-01-04"`},
	}
	for output, wants := range tests {
		t.Run(output, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printDraft(&buf, output, d); err != nil {
				t.Fatal(err)
			}
			for _, want := range wants {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
