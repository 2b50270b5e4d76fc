package question

import (
	"context"

	"github.com/LuiggiAmaralX/STAR-QUIZ/internal/model"
)

// StaticSource serves the embedded category table. No network round-trip,
// no randomness: every match in a category plays the same questions.
type StaticSource struct {
	table map[string][]model.Question
}

// NewStaticSource returns a source backed by the built-in categories.
func NewStaticSource() *StaticSource {
	return &StaticSource{table: builtinQuestions}
}

// Categories lists the category keys the source knows about.
func (s *StaticSource) Categories() []string {
	keys := make([]string, 0, len(s.table))
	for k := range s.table {
		keys = append(keys, k)
	}
	return keys
}

func (s *StaticSource) Questions(ctx context.Context, category string, n int) ([]model.Question, error) {
	list, ok := s.table[category]
	if !ok || len(list) < n {
		if !ok || len(list) == 0 {
			return nil, ErrNotEnoughQuestions
		}
		n = len(list)
	}
	out := make([]model.Question, n)
	copy(out, list[:n])
	return out, nil
}

var builtinQuestions = map[string][]model.Question{
	"tecnologia": {
		{
			Text:    "Qual empresa criou o sistema operacional Android?",
			Options: []string{"Apple", "Microsoft", "Google", "Samsung"},
			Answer:  2,
		},
		{
			Text:    "Qual linguagem de programação é a base para a web?",
			Options: []string{"Python", "Java", "JavaScript", "C++"},
			Answer:  2,
		},
	},
	"filmes": {
		{
			Text:    "Qual filme tem a famosa frase 'Luke, eu sou seu pai'?",
			Options: []string{"Star Wars: O Império Contra-Ataca", "Star Wars: Uma Nova Esperança", "Vingadores: Ultimato", "Matrix"},
			Answer:  0,
		},
		{
			Text:    "Quem dirigiu o filme 'Pulp Fiction'?",
			Options: []string{"Martin Scorsese", "Steven Spielberg", "Quentin Tarantino", "Christopher Nolan"},
			Answer:  2,
		},
	},
	"esportes": {
		{
			Text:    "Em qual esporte a expressão 'strike' é usada?",
			Options: []string{"Basquete", "Beisebol", "Futebol", "Tênis"},
			Answer:  1,
		},
		{
			Text:    "Quantos jogadores um time de vôlei de quadra tem em jogo?",
			Options: []string{"4", "5", "6", "7"},
			Answer:  2,
		},
	},
}
