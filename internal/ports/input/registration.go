package input

import "context"

// RegistrationUseCase performs the terminal registration actions. Every
// method returns the user-facing result message; business rejections come
// back as (message, domain error) so adapters can branch without parsing
// text, storage failures as ("", error).
type RegistrationUseCase interface {
	Register(ctx context.Context, locale string, eventID, userID int64, count int, teamName string, approximate bool) (string, error)
	ChangeParticipantsCount(ctx context.Context, locale string, eventID, userID int64, newCount int) (string, error)
	Cancel(ctx context.Context, locale string, eventID, userID int64) (string, error)
}
