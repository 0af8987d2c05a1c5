package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4tinbeigi-official/didar-crm/internal/models"
)

func TestApplyAcceptsSupportedFrequencies(t *testing.T) {
	s := New(func() {})
	defer s.Stop()

	for _, freq := range []string{models.FrequencyHourly, models.FrequencyTwiceDaily, models.FrequencyDaily} {
		assert.NoError(t, s.Apply(freq), "frequency %q", freq)
	}
}

func TestApplyRejectsUnknownFrequency(t *testing.T) {
	s := New(func() {})

	err := s.Apply("weekly")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "weekly")
}

func TestApplyReplacesPreviousEntry(t *testing.T) {
	s := New(func() {})
	defer s.Stop()

	require.NoError(t, s.Apply(models.FrequencyDaily))
	require.NoError(t, s.Apply(models.FrequencyHourly))

	assert.Len(t, s.cron.Entries(), 1)
}
