package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/openfield/pickup/internal/client"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/roster"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Match:
		o.printMatch(v)
	case []*model.Match:
		o.printMatchList(v)
	case *client.User:
		o.printUser(v)
	case []client.User:
		for i := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printUser(&v[i])
		}
	case *client.AuthResult:
		o.printUser(&v.User)
		fmt.Println("Signed in.")
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printMatch(m *model.Match) {
	fmt.Printf("Match: %s (%s)\n", m.Title, m.Key())
	if m.Date != "" || m.Time != "" {
		fmt.Printf("When: %s %s\n", m.Date, m.Time)
	}
	if m.Location != "" {
		fmt.Printf("Where: %s\n", m.Location)
	}
	if m.Notes != "" {
		fmt.Printf("Notes: %s\n", m.Notes)
	}

	capacity := roster.Capacity(m)
	fmt.Printf("Players (%d/%d confirmed):\n", roster.ConfirmedCount(m), capacity)
	for _, p := range m.Players {
		marker := " "
		if p.Status == model.StatusWaitlist {
			marker = "~"
		}
		name := p.Name
		if p.Username != "" {
			name = fmt.Sprintf("%s (@%s)", p.Name, p.Username)
		}
		fmt.Printf("  %s %s\n", marker, name)
	}
	if len(m.Players) == 0 {
		fmt.Println("  (nobody yet)")
	}
}

func (o *Output) printMatchList(matches []*model.Match) {
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, m := range matches {
		fmt.Printf("%-14s %s %s  %s (%d/%d)\n",
			m.Key(), m.Date, m.Time, m.Title,
			roster.ConfirmedCount(m), roster.Capacity(m))
	}
}

func (o *Output) printUser(u *client.User) {
	fmt.Printf("User: %s (%s)\n", u.DisplayName, u.ID)
	if u.Username != "" {
		fmt.Printf("Username: %s\n", u.Username)
	}
	fmt.Printf("Role: %s\n", u.Role)
	fmt.Printf("Source: %s\n", u.Source)
}
