package movie

import "context"

type Service interface {
	Listings(ctx context.Context) ([]Movie, error)
	Summaries(ctx context.Context) ([]string, error)
}

// Repository returns the movies currently showing.
type Repository interface {
	Listings(ctx context.Context) ([]Movie, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) Listings(ctx context.Context) ([]Movie, error) {
	movies, err := uc.r.Listings(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

func (uc *Usecase) Summaries(ctx context.Context) ([]string, error) {
	movies, err := uc.r.Listings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Summary())
	}
	return out, nil
}
