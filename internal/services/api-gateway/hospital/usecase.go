package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NordCoder/Carelink/internal/domain"
	"github.com/NordCoder/Carelink/internal/domain/hospital"
)

type Usecase struct {
	repo hospital.Repo
}

func New(repo hospital.Repo) *Usecase {
	return &Usecase{repo: repo}
}

// List returns one page of the directory. An empty q matches every hospital.
func (u *Usecase) List(ctx context.Context, q hospital.Query) (*hospital.Page, error) {
	q.Q = strings.TrimSpace(q.Q)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	items, total, err := u.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	if items == nil {
		items = []hospital.Hospital{}
	}
	return &hospital.Page{Items: items, Page: q.Page, Size: q.Size, Total: total}, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (*hospital.Hospital, error) {
	h, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, hospital.ErrNotFound
		}
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	return h, nil
}
