package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Styles
var (
	userMsgStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	cardNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type (
	errMsg  error
	cardMsg struct {
		card *Card
	}
)

type model struct {
	viewport   viewport.Model
	messages   []string
	textarea   textarea.Model
	err        error
	cardClient CardClient
}

func initialModel(cardClient CardClient) model {
	ta := textarea.New()
	ta.Placeholder = "Type a card name..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 200

	ta.SetWidth(80)
	ta.SetHeight(1)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)
	vp.SetContent("MTG card lookup\nType a card name and press enter.\n\n")

	ta.KeyMap.InsertNewline.SetEnabled(false)

	return model{
		textarea:   ta,
		messages:   []string{},
		viewport:   vp,
		cardClient: cardClient,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			cardName := strings.TrimSpace(m.textarea.Value())
			if cardName == "" {
				return m, nil
			}

			m = m.appendMessage(userMsgStyle.Render("> ") + cardName)
			m.textarea.Reset()

			return m, m.lookup(cardName)
		}

	case cardMsg:
		m = m.appendMessage(renderCard(msg.card))

	case errMsg:
		m.err = msg
		m = m.appendMessage(errorMsgStyle.Render(msg.Error()))
		return m, nil
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m model) appendMessage(s string) model {
	m.messages = append(m.messages, s)
	m.viewport.SetContent(strings.Join(m.messages, "\n\n") + "\n\n")
	m.viewport.GotoBottom()
	return m
}

func (m model) lookup(cardName string) tea.Cmd {
	return func() tea.Msg {
		card, err := m.cardClient.LookupCard(context.Background(), cardName)
		if err != nil {
			return errMsg(err)
		}
		return cardMsg{card: card}
	}
}

func (m model) View() string {
	return fmt.Sprintf(
		"%s\n\n%s",
		m.viewport.View(),
		m.textarea.View(),
	) + "\n\n(esc to quit)"
}

func renderCard(card *Card) string {
	var output strings.Builder

	output.WriteString(cardNameStyle.Render(deref(card.Name, "(unnamed)")))
	if card.ManaCost != nil {
		output.WriteString(" " + *card.ManaCost)
	}

	line := func(label string, value *string) {
		if value == nil {
			return
		}
		output.WriteString("\n" + labelStyle.Render(label+": ") + *value)
	}

	line("Type", card.Type)
	line("Text", card.Text)
	if card.Power != nil || card.Toughness != nil {
		pt := deref(card.Power, "-") + "/" + deref(card.Toughness, "-")
		line("P/T", &pt)
	}
	line("Image", card.ImageURL)

	return output.String()
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func main() {
	var endpoint string

	rootCmd := &cobra.Command{
		Use:          "cardchat",
		Short:        "Interactive terminal client for the MTG card endpoint",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := tea.NewProgram(
				initialModel(NewHTTPCardClient(endpoint)),
				tea.WithAltScreen(),
			)
			_, err := p.Run()
			return err
		},
	}
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:8080/", "card lookup endpoint URL")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
