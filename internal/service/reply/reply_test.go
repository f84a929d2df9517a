package reply

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%03d", i)
	}
	return strings.Join(parts, " ")
}

func TestLen(t *testing.T) {
	assert.Equal(t, 0, Len(""))
	assert.Equal(t, 6, Len("athens"))
	assert.Equal(t, 6, Len("\u1f08\u03b8\u1fc6\u03bd\u03b1\u03b9"))
}

func TestCookReply(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		got, err := CookReply("Athenae (579885).", "@alice", DefaultBudget)
		require.NoError(t, err)
		assert.Equal(t, "@alice\n\nAthenae (579885).", got)
	})

	t.Run("exactly on budget", func(t *testing.T) {
		answer := strings.Repeat("a", 12)
		got, err := CookReply(answer, "@bob", 18)
		require.NoError(t, err)
		assert.Equal(t, "@bob\n\n"+answer, got)
	})

	t.Run("long single paragraph", func(t *testing.T) {
		answer := strings.Repeat("word ", 119) + "words"
		require.Equal(t, 600, Len(answer))

		got, err := CookReply(answer, "@alice", DefaultBudget)
		require.NoError(t, err)

		assert.LessOrEqual(t, Len(got), DefaultBudget)
		assert.True(t, strings.HasPrefix(got, "@alice\n\nword word"))
		assert.True(t, strings.HasSuffix(got, "word..."))
	})

	t.Run("only the worst line is shortened", func(t *testing.T) {
		long := words(100)
		answer := "Intro line.\nSecond line.\n\n" + long + "\nshort tail\n\nOutro."

		got, err := CookReply(answer, "@alice", 300)
		require.NoError(t, err)

		assert.LessOrEqual(t, Len(got), 300)
		assert.True(t, strings.HasPrefix(got, "@alice\n\nIntro line.\nSecond line.\n\nw000 w001"))
		assert.True(t, strings.HasSuffix(got, "...\nshort tail\n\nOutro."))
		assert.NotContains(t, got, "w099")
	})

	t.Run("exactly three dots", func(t *testing.T) {
		answer := strings.TrimSpace(strings.Repeat("Sentence. ", 40))

		got, err := CookReply(answer, "@alice", 120)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, "Sentence..."), got)
		assert.False(t, strings.HasSuffix(got, "...."), got)
	})

	t.Run("no room for the ellipsis", func(t *testing.T) {
		answer := strings.TrimSpace(strings.Repeat("ab\n", 20))

		_, err := CookReply(answer, "@alice", 20)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnshortenable))
	})

	t.Run("querent alone is over budget", func(t *testing.T) {
		_, err := CookReply("Roma.", "@someone_with_a_long_handle", 10)
		assert.ErrorIs(t, err, ErrUnshortenable)
	})
}

func TestBuildChunks(t *testing.T) {
	t.Run("no answers", func(t *testing.T) {
		got, err := BuildChunks(nil, "@alice", DefaultBudget, DefaultMaxChunks)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("everything fits in one message", func(t *testing.T) {
		got, err := BuildChunks([]string{"Athenae (579885).", "Roma (423025)."}, "@q", DefaultBudget, DefaultMaxChunks)
		require.NoError(t, err)
		assert.Equal(t, []string{"@q\n\nAthenae (579885).\n\n@q\n\nRoma (423025)."}, got)
	})

	t.Run("within cap", func(t *testing.T) {
		answers := []string{
			"first " + words(40),
			"second " + words(40),
			"third " + words(40),
		}

		got, err := BuildChunks(answers, "@q", DefaultBudget, DefaultMaxChunks)
		require.NoError(t, err)
		require.Len(t, got, 4)

		assert.Contains(t, got[0], "I have found 3 place resources relevant to your query.")
		for i, name := range []string{"first", "second", "third"} {
			part := got[i+1]
			assert.True(t, strings.HasPrefix(part, "@q\n\n"+name+" "), part)
			assert.True(t, strings.HasSuffix(part, fmt.Sprintf(" %d/3", i+1)), part)
		}
		for _, c := range got {
			assert.LessOrEqual(t, Len(c), DefaultBudget)
		}
	})

	t.Run("over cap", func(t *testing.T) {
		var answers []string
		for i := 1; i <= 7; i++ {
			answers = append(answers, fmt.Sprintf("answer-%d %s", i, words(30)))
		}

		got, err := BuildChunks(answers, "@q", DefaultBudget, 5)
		require.NoError(t, err)
		require.Len(t, got, 6)

		assert.Contains(t, got[0], "I have found 7 place resources")
		assert.Contains(t, got[0], "only allowed to return the first 5 answers")
		for i := 1; i <= 5; i++ {
			assert.True(t, strings.HasPrefix(got[i], fmt.Sprintf("@q\n\nanswer-%d ", i)), got[i])
			assert.True(t, strings.HasSuffix(got[i], fmt.Sprintf(" %d/5", i)), got[i])
		}
	})

	t.Run("default cap", func(t *testing.T) {
		var answers []string
		for i := 0; i < 9; i++ {
			answers = append(answers, words(30))
		}

		got, err := BuildChunks(answers, "@q", DefaultBudget, 0)
		require.NoError(t, err)
		assert.Len(t, got, DefaultMaxChunks+1)
	})

	t.Run("labelled parts stay within budget", func(t *testing.T) {
		answers := []string{words(96), words(96)}
		require.Equal(t, 479, Len(answers[0]))

		got, err := BuildChunks(answers, "@alice", DefaultBudget, DefaultMaxChunks)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, c := range got {
			assert.LessOrEqual(t, Len(c), DefaultBudget, c)
		}
		assert.True(t, strings.HasSuffix(got[1], "... 1/2"), got[1])
	})

	t.Run("parts keep answer order", func(t *testing.T) {
		var answers []string
		for i := 7; i >= 1; i-- {
			answers = append(answers, fmt.Sprintf("place %d: %s", i, words(28)))
		}

		got, err := BuildChunks(answers, "@q", DefaultBudget, 7)
		require.NoError(t, err)
		require.Len(t, got, 8)

		rebuilt := make([]string, 0, len(got)-1)
		for i, part := range got[1:] {
			label := fmt.Sprintf(" %d/%d", i+1, len(got)-1)
			require.True(t, strings.HasSuffix(part, label), part)
			body := strings.TrimSuffix(part, label)
			require.True(t, strings.HasPrefix(body, "@q\n\n"), body)
			rebuilt = append(rebuilt, strings.TrimPrefix(body, "@q\n\n"))
		}
		assert.Equal(t, answers, rebuilt)

		capped, err := BuildChunks(answers, "@q", DefaultBudget, 3)
		require.NoError(t, err)
		require.Len(t, capped, 4)
		for i, part := range capped[1:] {
			assert.Equal(t, "@q\n\n"+answers[i]+fmt.Sprintf(" %d/3", i+1), part)
		}
	})

	t.Run("unshortenable answer is an error", func(t *testing.T) {
		answers := []string{"Roma.", strings.TrimSpace(strings.Repeat("ab\n", 300))}

		_, err := BuildChunks(answers, "@q", DefaultBudget, DefaultMaxChunks)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnshortenable)
		assert.Contains(t, err.Error(), "answer 2 of 2")
	})
}

func TestBlockQuote(t *testing.T) {
	assert.Equal(t, "     > one\n     >\n     > two\n     > three", BlockQuote("one\n\ntwo\nthree"))

	quoted := BlockQuote(words(40))
	lines := strings.Split(quoted, "\n")
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, QuoteLeader), l)
		assert.LessOrEqual(t, Len(l), QuoteWidth, l)
	}
}
