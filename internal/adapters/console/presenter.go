package console

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/mikey/llm-scam-check/internal/core"
)

const barSegments = 10

// Presenter renders assessments and follow-up replies to a terminal.
// Rendering never mutates the assessment, so showing the same one twice
// produces identical output.
type Presenter struct {
	out io.Writer

	alert   *color.Color
	caution *color.Color
	calm    *color.Color
	label   *color.Color
}

// NewPresenter creates a presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{
		out:     out,
		alert:   color.New(color.FgRed, color.Bold),
		caution: color.New(color.FgYellow),
		calm:    color.New(color.FgGreen),
		label:   color.New(color.Bold),
	}
}

// ShowAssessment renders one assessment: the colored verdict line, a
// 10-segment risk bar, the summary, and a labeled section per non-empty
// list. Empty lists are omitted entirely.
func (p *Presenter) ShowAssessment(a *core.Assessment) {
	scoreStyle := p.styleForScore(a.RiskScore)
	verdictStyle := p.styleForVerdict(a.Verdict)

	fmt.Fprintf(p.out, "\n=== Scam Safety Check ===\n")
	fmt.Fprintf(p.out, "Verdict: %s  |  Risk: %s  |  Confidence: %d%%\n",
		verdictStyle.Sprint(a.Verdict),
		scoreStyle.Sprintf("%d/100", a.RiskScore),
		int(math.Round(a.Confidence*100)))
	fmt.Fprintf(p.out, "Risk level: %s\n", scoreStyle.Sprint(p.riskBar(a.RiskScore)))
	fmt.Fprintf(p.out, "\nSummary: %s\n", a.Summary)

	p.printList("Red flags", a.RedFlags)
	p.printList("Green flags", a.GreenFlags)
	p.printList("Safe actions now", a.SafeActionsNow)
	p.printList("What to check next", a.WhatToCheck)
	p.printList("Questions to ask yourself", a.QuestionsToAsk)
	p.printList("Never share", a.DataToNeverShare)
}

// ShowReply renders a follow-up reply.
func (p *Presenter) ShowReply(text string) {
	fmt.Fprintf(p.out, "\n%s\n", text)
}

// ShowError renders a user-facing error line.
func (p *Presenter) ShowError(err error) {
	fmt.Fprintf(p.out, "\n%s %v\n", p.alert.Sprint("Error:"), err)
}

func (p *Presenter) printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(p.out, "\n%s:\n", p.label.Sprint(label))
	for _, item := range items {
		fmt.Fprintf(p.out, "  - %s\n", item)
	}
}

func (p *Presenter) riskBar(score int) string {
	filled := int(math.Round(float64(score) / 10))
	if filled > barSegments {
		filled = barSegments
	}
	if filled < 0 {
		filled = 0
	}

	bar := ""
	for i := 0; i < barSegments; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func (p *Presenter) styleForScore(score int) *color.Color {
	switch {
	case score >= 70:
		return p.alert
	case score >= 40:
		return p.caution
	default:
		return p.calm
	}
}

func (p *Presenter) styleForVerdict(verdict string) *color.Color {
	switch verdict {
	case core.VerdictLikelyScam:
		return p.alert
	case core.VerdictUnclear:
		return p.caution
	default:
		return p.calm
	}
}
