// Package parlay implementa o bilhete de aposta múltipla como um tipo de
// valor puro, sem dependência de UI ou de banco: qualquer front chama as
// mesmas regras, e o serviço de apostas reutiliza a validação na hora de
// efetivar.
package parlay

import "errors"

var (
	// ErrOtherMatch indica que a odd pertence a outra partida; o chamador
	// precisa confirmar a troca explicitamente via SwitchTo.
	ErrOtherMatch = errors.New("selection belongs to another match")

	// ErrDuplicateMarket indica duas seleções no mesmo mercado.
	ErrDuplicateMarket = errors.New("duplicate market in selections")

	// ErrEmptySlip indica bilhete vazio; o multiplicador é indefinido.
	ErrEmptySlip = errors.New("empty slip")
)

// Odd é a visão mínima de uma odd que o bilhete precisa conhecer.
type Odd struct {
	ID         string
	MatchID    string
	MarketType string
	Value      float64
}

// Slip acumula seleções de uma única partida.
// Zero value pronto para uso.
type Slip struct {
	matchID    string
	selections []Odd
}

// MatchID retorna a partida travada pelo bilhete ("" quando vazio).
func (s *Slip) MatchID() string { return s.matchID }

// Selections retorna uma cópia ordenada das seleções.
func (s *Slip) Selections() []Odd {
	out := make([]Odd, len(s.selections))
	copy(out, s.selections)
	return out
}

// Contains informa se a odd já está no bilhete.
func (s *Slip) Contains(oddID string) bool {
	for _, o := range s.selections {
		if o.ID == oddID {
			return true
		}
	}
	return false
}

// Toggle aplica as três regras do bilhete:
//  1. todas as seleções pertencem a uma partida só — odd de outra partida
//     retorna ErrOtherMatch e o bilhete não muda (no-op sem confirmação);
//  2. no máximo uma seleção por mercado — selecionar em mercado ocupado
//     substitui a anterior;
//  3. selecionar uma odd já presente a remove; esvaziando o bilhete,
//     a trava de partida é liberada.
func (s *Slip) Toggle(o Odd) error {
	if s.matchID != "" && s.matchID != o.MatchID {
		return ErrOtherMatch
	}

	// Toggle-off
	if s.Contains(o.ID) {
		kept := s.selections[:0]
		for _, sel := range s.selections {
			if sel.ID != o.ID {
				kept = append(kept, sel)
			}
		}
		s.selections = kept
		if len(s.selections) == 0 {
			s.matchID = ""
		}
		return nil
	}

	s.matchID = o.MatchID

	// Exclusividade de mercado: substitui, não acumula
	for i, sel := range s.selections {
		if sel.MarketType == o.MarketType {
			s.selections[i] = o
			return nil
		}
	}

	s.selections = append(s.selections, o)
	return nil
}

// SwitchTo é o caminho de confirmação explícita: descarta o bilhete atual
// e começa de novo na partida da odd informada.
func (s *Slip) SwitchTo(o Odd) {
	s.Clear()
	_ = s.Toggle(o)
}

// Clear descarta todas as seleções e libera a trava de partida.
func (s *Slip) Clear() {
	s.matchID = ""
	s.selections = nil
}

// TotalMultiplier é o produto dos valores das seleções.
// Bilhete vazio não tem multiplicador utilizável.
func (s *Slip) TotalMultiplier() (float64, error) {
	if len(s.selections) == 0 {
		return 0, ErrEmptySlip
	}
	total := 1.0
	for _, o := range s.selections {
		total *= o.Value
	}
	return total, nil
}

// ValidateExclusive verifica a invariante de exclusividade sobre um conjunto
// arbitrário de seleções. O serviço de apostas roda esta mesma checagem no
// commit, contra as odds relidas do banco.
func ValidateExclusive(odds []Odd) error {
	if len(odds) == 0 {
		return ErrEmptySlip
	}
	seen := make(map[string]struct{}, len(odds))
	for _, o := range odds {
		if _, dup := seen[o.MarketType]; dup {
			return ErrDuplicateMarket
		}
		seen[o.MarketType] = struct{}{}
	}
	return nil
}
