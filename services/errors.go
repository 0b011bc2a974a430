package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrWorldcupNotFound = errors.New("worldcup not found")

	// Ошибки валидации
	ErrVoteWinnerRequired = errors.New("vote winner is required")
	ErrVoteSelfMatch      = errors.New("vote winner and loser must differ")
	ErrTooManyVotes       = errors.New("too many votes in one request")
	ErrWinnerRequired     = errors.New("tournament winner is required")
	ErrWinnerNotInMatches = errors.New("winner does not appear in the reported matches")
	ErrUnknownItem        = errors.New("item does not belong to this worldcup")

	// Ошибки конфликтов
	ErrPlayAlreadyRecorded = errors.New("statistics for this session were already recorded")

	// Ошибки сессий
	ErrInvalidSessionToken = errors.New("invalid or expired session token")
	ErrSessionMismatch     = errors.New("session token was issued for another worldcup")
)
