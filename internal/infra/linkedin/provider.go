// Package linkedin resolves LinkedIn company and person data through an
// ordered chain of scraping providers. Providers differ in coverage and
// payload shape; the resolver normalizes everything into the domain
// entities and records which provider served each result.
package linkedin

import (
	"context"
	"fmt"

	"leadpulse/internal/domain/entity"
)

// CompanyProfileProvider fetches a company page profile.
type CompanyProfileProvider interface {
	Name() string
	CompanyProfile(ctx context.Context, companyURL string) (*entity.CompanyProfile, error)
}

// CompanyPostsProvider fetches recent posts from a company page.
type CompanyPostsProvider interface {
	Name() string
	CompanyPosts(ctx context.Context, companyURL string, limit int) ([]entity.CompanyPost, error)
}

// PersonProfileProvider fetches a personal profile.
type PersonProfileProvider interface {
	Name() string
	PersonProfile(ctx context.Context, profileURL string) (*entity.PersonProfile, error)
}

// NoProviderError reports that every provider in a chain failed or that no
// provider is configured for the request.
type NoProviderError struct {
	Request string
}

func (e *NoProviderError) Error() string {
	return fmt.Sprintf("no provider could serve %s", e.Request)
}
