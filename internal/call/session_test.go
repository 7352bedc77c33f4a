package call

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_AttemptCountTracksQuestions(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)

	require.NoError(t, conv.AddQuestion("hi"))
	conv.AddAnswer("hello there")
	require.NoError(t, conv.AddQuestion("what are your hours"))

	assert.Equal(t, 2, conv.AttemptCount())
	assert.Len(t, conv.Questions(), 2)

	callerTurns := 0
	for _, turn := range conv.History() {
		if turn.Role == RoleCaller {
			callerTurns++
		}
	}
	assert.Equal(t, conv.AttemptCount(), callerTurns)
}

func TestConversation_RejectsEmptyUtterance(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)

	assert.ErrorIs(t, conv.AddQuestion(""), ErrEmptyUtterance)
	assert.ErrorIs(t, conv.AddQuestion("   \t"), ErrEmptyUtterance)
	assert.Equal(t, 0, conv.AttemptCount())
	assert.Empty(t, conv.History())
}

func TestConversation_EscalationThreshold(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)

	for i, q := range []string{"one", "two"} {
		require.NoError(t, conv.AddQuestion(q))
		assert.False(t, conv.ShouldEscalate(), "should not escalate after %d questions", i+1)
	}

	require.NoError(t, conv.AddQuestion("three"))
	assert.True(t, conv.ShouldEscalate())

	// Never de-escalates.
	require.NoError(t, conv.AddQuestion("four"))
	assert.True(t, conv.ShouldEscalate())
}

func TestConversation_CustomThreshold(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", 1)
	assert.False(t, conv.ShouldEscalate())
	require.NoError(t, conv.AddQuestion("hi"))
	assert.True(t, conv.ShouldEscalate())

	// Invalid threshold falls back to the default.
	conv = NewConversation("CA456", "+15551234567", 0)
	require.NoError(t, conv.AddQuestion("hi"))
	assert.False(t, conv.ShouldEscalate())
}

func TestConversation_SummaryNumbersQuestionsInOrder(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)
	questions := []string{"hi", "what are your hours", "can I get a refund"}
	for _, q := range questions {
		require.NoError(t, conv.AddQuestion(q))
	}
	conv.AddAnswer("we are open nine to five")

	summary := conv.Summary()
	assert.Contains(t, summary, "Caller: +15551234567")
	assert.Contains(t, summary, "Time: ")
	assert.Contains(t, summary, "Q1: hi")
	assert.Contains(t, summary, "Q2: what are your hours")
	assert.Contains(t, summary, "Q3: can I get a refund")
	assert.NotContains(t, summary, "nine to five")

	// Rendering must not mutate state.
	assert.Equal(t, 3, conv.AttemptCount())
	assert.Equal(t, summary[:strings.Index(summary, "Time")], conv.Summary()[:strings.Index(summary, "Time")])
}

func TestConversation_TranscriptDropsAgentTurns(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)
	require.NoError(t, conv.AddQuestion("hi"))
	conv.AddAnswer("hello")
	require.NoError(t, conv.AddQuestion("bye"))

	assert.Equal(t, "hi\nbye", conv.Transcript())
	assert.Equal(t, 2, conv.AttemptCount())
}

func TestConversation_HistoryReturnsCopy(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)
	require.NoError(t, conv.AddQuestion("hi"))

	history := conv.History()
	history[0].Text = "mutated"
	assert.Equal(t, "hi", conv.History()[0].Text)
}

func TestConversation_EscalationState(t *testing.T) {
	conv := NewConversation("CA123", "+15551234567", DefaultEscalationThreshold)
	assert.False(t, conv.Escalated())
	assert.False(t, conv.AwaitingVoicemail())

	conv.MarkEscalated()
	assert.True(t, conv.Escalated())
	assert.True(t, conv.AwaitingVoicemail())
}
