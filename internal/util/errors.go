package util

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidTier          = errors.New("invalid tier")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrAssessmentCompleted  = errors.New("assessment already completed")
	ErrAssessmentIncomplete = errors.New("assessment not completed")
	ErrAffiliateNotFound    = errors.New("affiliate not found")
	ErrAffiliateCodeTaken   = errors.New("affiliate code already in use")
	ErrInvalidAffiliate     = errors.New("invalid affiliate code")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrInvalidSlug          = errors.New("slug cannot be empty")
	ErrNotFound             = errors.New("resource not found")
	ErrSubscriberNotFound   = errors.New("subscriber not found")
	ErrMailDisabled         = errors.New("mail delivery disabled")
	ErrStrategyDisabled     = errors.New("strategy generation disabled")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidFileType      = errors.New("invalid file type")
)
