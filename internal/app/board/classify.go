package board

import "strings"

// Kind is the presentation badge variant inferred from a card's text.
type Kind string

const (
	KindReport  Kind = "report"
	KindMeeting Kind = "meeting"
	KindData    Kind = "data"
	KindDoc     Kind = "doc"
	KindDefault Kind = "default"
)

// First matching entry wins, so the table order is part of the contract.
var kindKeywords = []struct {
	kind  Kind
	words []string
}{
	{KindReport, []string{"power bi", "dashboard", "relatório", "grafico"}},
	{KindMeeting, []string{"reunião", "call", "alinhamento", "meeting"}},
	{KindData, []string{"query", "sql", "dados", "extração", "base"}},
	{KindDoc, []string{"doc", "processo", "manual", "instrução"}},
}

// Classify infers a card kind from its title and tags via a static keyword
// table. Pure presentation metadata: nothing in the ordering or sync paths
// depends on it.
func Classify(card *Card) Kind {
	text := strings.ToLower(card.Title + " " + strings.Join(card.Tags, " "))

	for _, entry := range kindKeywords {
		for _, w := range entry.words {
			if strings.Contains(text, w) {
				return entry.kind
			}
		}
	}
	return KindDefault
}
