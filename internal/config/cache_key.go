package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ParticipantSessionKey returns the cache key for a participant's login session
func (r *CacheKeyStruct) ParticipantSessionKey(participantID string) string {
	return fmt.Sprintf("login:%s", participantID)
}

// AttemptStartKey returns the cache key for an attempt's start time
func (r *CacheKeyStruct) AttemptStartKey(sectionID, participantID string) string {
	return fmt.Sprintf("participant:%s:section:%s:attempt_start", participantID, sectionID)
}

// AttemptDraftAnswersKey returns the cache key for a participant's autosaved draft answers
func (r *CacheKeyStruct) AttemptDraftAnswersKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:draft_answers", attemptID)
}

// SectionDurationKey returns the cache key for a section's duration in minutes
func (r *CacheKeyStruct) SectionDurationKey(sectionID string) string {
	return fmt.Sprintf("section:%s:duration", sectionID)
}

// TestProgressChannel returns the Redis PubSub channel name for a test's live progress feed
func (r *CacheKeyStruct) TestProgressChannel(testID string) string {
	return fmt.Sprintf("test:%s:progress", testID)
}

var CacheKey = NewCacheKeyStruct()
