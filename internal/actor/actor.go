// Package actor composes every entity repository into the single API surface
// the rest of the platform talks to.
package actor

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/litepolis/litepolis-database-go/internal/repository"
)

// Actor aggregates one instance of each repository. Operations are reached by
// field, e.g. actor.Users.Create(...); the repositories have non-overlapping
// concerns, so no further dispatch is needed.
type Actor struct {
	Users         repository.UserRepository
	Conversations repository.ConversationRepository
	Comments      repository.CommentRepository
	Votes         repository.VoteRepository
	Reports       repository.ReportRepository
	Participants  repository.ParticipantRepository
	Zinvites      repository.ZinviteRepository
	Einvites      repository.EinviteRepository
	Migrations    repository.MigrationRepository
}

// New wires every repository to the injected connection pool. The pool is
// constructed once by the caller (see database.Connect); nothing in here
// reconnects lazily.
func New(db *gorm.DB, logger zerolog.Logger) *Actor {
	validate := validator.New(validator.WithRequiredStructEnabled())

	return &Actor{
		Users:         repository.NewUserRepository(db, validate, logger),
		Conversations: repository.NewConversationRepository(db, validate, logger),
		Comments:      repository.NewCommentRepository(db, validate, logger),
		Votes:         repository.NewVoteRepository(db, validate, logger),
		Reports:       repository.NewReportRepository(db, validate, logger),
		Participants:  repository.NewParticipantRepository(db, validate, logger),
		Zinvites:      repository.NewZinviteRepository(db, logger),
		Einvites:      repository.NewEinviteRepository(db, logger),
		Migrations:    repository.NewMigrationRepository(db, logger),
	}
}
