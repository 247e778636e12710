// Package search maintains the Elasticsearch user index behind profile suggestions.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// UserIndex stores one document per user.
type UserIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewUserIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndex {
	return &UserIndex{es: es, index: index, logger: logger}
}

func userDocument(u *entity.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"name":       u.FullName(),
		"avatar_url": u.AvatarURL,
		"role":       string(u.Role),
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func suggestQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"type":   "bool_prefix",
				"fields": []string{"email^2", "username^2", "name"},
			},
		},
		"size": size,
	}
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(userDocument(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", u.ID, res.Status())
	}
	return nil
}

func (x *UserIndex) Suggest(ctx context.Context, q string, size int) ([]map[string]any, error) {
	b, err := json.Marshal(suggestQuery(q, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		x.logger.WithField("status", res.Status()).Warn("es suggest response error")
		return []map[string]any{}, nil
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
