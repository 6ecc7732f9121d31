package linkedin

import (
	"context"
	"log/slog"

	"leadpulse/internal/domain/entity"
)

// Resolver walks provider chains in configuration order. The first
// successful provider wins and later ones are never consulted; every
// failure is logged at warn and the chain moves on.
type Resolver struct {
	profileChain []CompanyProfileProvider
	postsChain   []CompanyPostsProvider
	personChain  []PersonProfileProvider
	logger       *slog.Logger
}

// NewResolver creates a resolver over the given chains. Empty chains are
// valid; the corresponding requests then always return NoProviderError.
func NewResolver(
	profileChain []CompanyProfileProvider,
	postsChain []CompanyPostsProvider,
	personChain []PersonProfileProvider,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		profileChain: profileChain,
		postsChain:   postsChain,
		personChain:  personChain,
		logger:       logger,
	}
}

// CompanyProfile resolves a company profile through the chain.
func (r *Resolver) CompanyProfile(ctx context.Context, companyURL string) (*entity.CompanyProfile, error) {
	for _, provider := range r.profileChain {
		profile, err := provider.CompanyProfile(ctx, companyURL)
		if err != nil {
			r.warnFailure("company profile", provider.Name(), companyURL, err)
			continue
		}
		profile.Source = provider.Name()
		return profile, nil
	}
	return nil, &NoProviderError{Request: "company profile"}
}

// CompanyPosts resolves recent company posts through the chain.
func (r *Resolver) CompanyPosts(ctx context.Context, companyURL string, limit int) ([]entity.CompanyPost, error) {
	for _, provider := range r.postsChain {
		posts, err := provider.CompanyPosts(ctx, companyURL, limit)
		if err != nil {
			r.warnFailure("company posts", provider.Name(), companyURL, err)
			continue
		}
		for i := range posts {
			posts[i].Source = provider.Name()
		}
		return posts, nil
	}
	return nil, &NoProviderError{Request: "company posts"}
}

// PersonProfile resolves a personal profile through the chain.
func (r *Resolver) PersonProfile(ctx context.Context, profileURL string) (*entity.PersonProfile, error) {
	for _, provider := range r.personChain {
		profile, err := provider.PersonProfile(ctx, profileURL)
		if err != nil {
			r.warnFailure("person profile", provider.Name(), profileURL, err)
			continue
		}
		profile.Source = provider.Name()
		return profile, nil
	}
	return nil, &NoProviderError{Request: "person profile"}
}

func (r *Resolver) warnFailure(request, provider, url string, err error) {
	r.logger.Warn("provider failed, trying next",
		slog.String("request", request),
		slog.String("provider", provider),
		slog.String("url", url),
		slog.Any("error", err))
}
