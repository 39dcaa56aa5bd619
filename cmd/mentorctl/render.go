package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/careerpath/mentor-server-go/internal/chatclient"
	"github.com/careerpath/mentor-server-go/internal/model"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func rolePrefix(role model.MessageRole) string {
	switch role {
	case model.RoleUser:
		return color.CyanString("you>")
	case model.RoleAssistant:
		return color.GreenString("mentor>")
	default:
		return color.HiBlackString(string(role) + ">")
	}
}

func printEntries(w io.Writer, entries []chatclient.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s\n\n", rolePrefix(e.Role), e.Content)
	}
}

// streamPrinter writes the growing assistant entry to w as the transcript
// reveals it.
type streamPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	active bool
	shown  int
}

func (p *streamPrinter) OnChange(entries []chatclient.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	last := entries[len(entries)-1]
	if last.Role != model.RoleAssistant || (!last.Streaming && !p.active) {
		return
	}

	if !p.active {
		fmt.Fprintf(p.w, "%s ", rolePrefix(model.RoleAssistant))
		p.active = true
		p.shown = 0
	}

	runes := []rune(last.Content)
	if len(runes) > p.shown {
		fmt.Fprint(p.w, string(runes[p.shown:]))
		p.shown = len(runes)
	}

	if !last.Streaming {
		fmt.Fprint(p.w, "\n\n")
		p.active = false
	}
}

func printSessions(w io.Writer, page *chatclient.SessionPage) {
	if len(page.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions found")
		return
	}

	fmt.Fprintln(w, color.CyanString("Sessions"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, s := range page.Sessions {
		status := color.GreenString("●")
		if !s.IsActive {
			status = color.HiBlackString("○")
		}
		fmt.Fprintf(w, "%s %s  %s  %s (%d messages)\n",
			status,
			color.HiBlackString(s.UpdatedAt.Format("2006-01-02 15:04")),
			s.ID,
			s.Title,
			s.MessageCount,
		)
	}
	p := page.Pagination
	fmt.Fprintf(w, "\npage %d/%d, %d sessions\n", p.CurrentPage, max(p.TotalPages, 1), p.TotalItems)
}

func printStats(w io.Writer, stats *model.Stats) {
	fmt.Fprintln(w, color.CyanString("Mentor usage"))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "sessions        %d (%d active)\n", stats.TotalSessions, stats.ActiveSessions)
	fmt.Fprintf(w, "messages        %d (%.1f per session)\n", stats.TotalMessages, stats.AverageMessagesPerSession)
	fmt.Fprintf(w, "action items    %d/%d completed\n", stats.CompletedActionItems, stats.TotalActionItems)
	for _, kind := range model.SessionTypes {
		fmt.Fprintf(w, "  %-20s %d\n", kind, stats.BySessionType[kind])
	}
}

func printAssessment(w io.Writer, a *model.SkillAssessment) {
	fmt.Fprintf(w, "%s %.0f/100\n\n", color.CyanString("Overall score"), a.OverallScore)
	for _, s := range a.AssessedSkills {
		fmt.Fprintf(w, "%-20s %-12s demand: %s\n", s.Skill, s.CurrentLevel, s.MarketDemand)
	}
	printList(w, "Strengths", a.Strengths)
	printList(w, "Weaknesses", a.Weaknesses)
	for _, g := range a.GapAnalysis {
		fmt.Fprintf(w, "%s %s: %s -> %s (%s, %s)\n", color.YellowString("gap"), g.Skill, g.CurrentLevel, g.RequiredLevel, g.Priority, g.EstimatedTimeToLearn)
	}
	printList(w, "Recommendations", a.Recommendations)
	printList(w, "Learning path", a.LearningPath)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", color.CyanString(title))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
