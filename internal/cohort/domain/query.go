package domain

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/smallbiznis/nasiya/internal/rating/engine"
	"github.com/smallbiznis/nasiya/pkg/db/pagination"
)

const DefaultPageSize = 20

var (
	ErrInvalidRating = errors.New("invalid_rating")
	ErrInvalidSort   = errors.New("invalid_sort")
)

type SortField string

const (
	SortNone         SortField = ""
	SortAverageDays  SortField = "average_days"
	SortPaymentCount SortField = "payment_count"
	SortName         SortField = "name"
)

type Query struct {
	Rating   string `form:"rating"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type Report struct {
	Counts     Counts          `json:"counts"`
	Items      []Member        `json:"items"`
	Pagination pagination.Page `json:"pagination"`
}

// Apply filters, sorts and paginates members. Counts always cover the
// unfiltered members.
func Apply(members []Member, q Query) (Report, error) {
	rating := strings.ToLower(strings.TrimSpace(q.Rating))
	if rating != "" && rating != "all" && !engine.Category(rating).Valid() {
		return Report{}, ErrInvalidRating
	}

	field := SortField(strings.ToLower(strings.TrimSpace(q.Sort)))
	switch field {
	case SortNone, SortAverageDays, SortPaymentCount, SortName:
	default:
		return Report{}, ErrInvalidSort
	}
	desc := strings.EqualFold(strings.TrimSpace(q.Order), "desc")

	filtered := make([]Member, 0, len(members))
	for _, m := range members {
		if rating != "" && rating != "all" && string(m.Category) != rating {
			continue
		}
		if !m.Matches(q.Search) {
			continue
		}
		filtered = append(filtered, m)
	}

	if field != SortNone {
		sort.SliceStable(filtered, func(i, j int) bool {
			a, b := filtered[i], filtered[j]
			if desc {
				a, b = b, a
			}
			switch field {
			case SortAverageDays:
				return a.AverageDays < b.AverageDays
			case SortPaymentCount:
				return a.PaymentCount < b.PaymentCount
			default:
				return strings.ToLower(a.FirstName+" "+a.LastName) < strings.ToLower(b.FirstName+" "+b.LastName)
			}
		})
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	items, page := pagination.Slice(filtered, q.Page, pageSize)
	return Report{
		Counts:     CountOf(members),
		Items:      items,
		Pagination: page,
	}, nil
}

type Service interface {
	MaturityReport(ctx context.Context, q Query) (Report, error)
	IntervalReport(ctx context.Context, q Query) (Report, error)
}
