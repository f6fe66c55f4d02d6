package backend

import (
	"context"

	"github.com/travigo/railreserve/pkg/railway"
)

type Query struct {
	QueryID    railway.Identifier `json:"query_id"`
	Question   string             `json:"question"`
	Answer     string             `json:"answer,omitempty"`
	CustomerID string             `json:"customer_id,omitempty"`
}

type queriesResponse struct {
	Envelope
	Queries []Query `json:"queries"`
}

// FetchQueries returns the top queries when keyword is empty
func (c *Client) FetchQueries(ctx context.Context, keyword string) ([]Query, error) {
	response, err := call[queriesResponse](ctx, c, EndpointFetchQueries, map[string]string{
		"keyword": keyword,
	})
	if err != nil {
		return nil, err
	}

	return response.Queries, nil
}

func (c *Client) CreateQuery(ctx context.Context, question string, customerEmail string) error {
	_, err := call[Envelope](ctx, c, EndpointCreateQuery, map[string]string{
		"question":    question,
		"customer_id": customerEmail,
	})

	return err
}

func (c *Client) AnswerQuery(ctx context.Context, queryID railway.Identifier, answer string) error {
	_, err := call[Envelope](ctx, c, EndpointAnswerQuery, map[string]any{
		"query_id": queryID,
		"answer":   answer,
	})

	return err
}
