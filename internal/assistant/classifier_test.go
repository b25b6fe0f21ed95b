package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsComplexQuestion_ComplexIntents(t *testing.T) {
	complex := []string{
		"Can you compare these two listings?",
		"What's the difference between a condo and a townhouse?",
		"Is this a good time to invest in rental property?",
		"What's a good investment property strategy in this market?",
		"How are the schools in the Maple Grove neighborhood?",
		"What are the pros and cons of buying a fixer-upper?",
		"How much mortgage can I afford on $90k a year?",
		"What would my monthly payment be with 20% down?",
		"Explain closing costs to me",
		"Which loan option would you recommend?",
		"CONDO VS TOWNHOUSE",
	}
	for _, msg := range complex {
		assert.True(t, IsComplexQuestion(msg), "expected complex: %q", msg)
	}
}

func TestIsComplexQuestion_SimpleIntents(t *testing.T) {
	simple := []string{
		"hello",
		"hi there",
		"what's your address",
		"thanks!",
		"do you have open houses this weekend",
		"can I speak to an agent",
	}
	for _, msg := range simple {
		assert.False(t, IsComplexQuestion(msg), "expected simple: %q", msg)
	}
}

func TestIsComplexQuestion_Deterministic(t *testing.T) {
	msg := "should I buy or rent, what would be best?"
	first := IsComplexQuestion(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, IsComplexQuestion(msg))
	}
}
