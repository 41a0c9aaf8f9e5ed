// Package supabase implements store.Store against a Supabase project's
// PostgREST endpoint. There are no client-side transactions here: the
// check-then-insert sequence for registrations can race, and the unique
// indexes on the hosted database are what actually resolve the race. The
// loser of a race observes the same conflict sentinels as the postgres
// backend, translated from the PostgREST error payload.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/gridclash/arena-api/store"
)

type Store struct {
	client *resty.Client
}

// New builds a Store speaking to <projectURL>/rest/v1 with the service
// role key. The service key bypasses row-level security; authorization
// is enforced in the service layer, same as the postgres variant.
func New(projectURL, serviceKey string) *Store {
	client := resty.New().
		SetBaseURL(strings.TrimRight(projectURL, "/") + "/rest/v1").
		SetHeader("apikey", serviceKey).
		SetHeader("Authorization", "Bearer "+serviceKey).
		SetHeader("Content-Type", "application/json")

	return &Store{client: client}
}

var _ store.Store = (*Store)(nil)

// pgrstError is the JSON error body PostgREST returns. Code carries the
// underlying Postgres SQLSTATE when the error originated in the database.
type pgrstError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// conflictSentinels maps constraint names, which PostgREST echoes inside
// the error message, to the shared store sentinels.
var conflictSentinels = map[string]error{
	"users_username_key":                   store.ErrUsernameTaken,
	"users_email_key":                      store.ErrEmailTaken,
	"users_phone_key":                      store.ErrPhoneTaken,
	"admins_username_key":                  store.ErrUsernameTaken,
	"teams_name_key":                       store.ErrTeamNameTaken,
	"teams_invite_code_key":                store.ErrInviteCodeTaken,
	"team_members_team_id_username_key":    store.ErrMemberExists,
	"registrations_tournament_team_key":    store.ErrAlreadyRegistered,
	"registrations_tournament_user_key":    store.ErrAlreadyRegistered,
	"notification_reads_user_id_notif_key": store.ErrAlreadyRead,
}

func translateResponse(resp *resty.Response, notFound error) error {
	if !resp.IsError() {
		return nil
	}

	var pe pgrstError
	if err := json.Unmarshal(resp.Body(), &pe); err == nil {
		combined := pe.Message + " " + pe.Details
		for constraint, sentinel := range conflictSentinels {
			if strings.Contains(combined, constraint) {
				return sentinel
			}
		}
		if pe.Code == "23503" {
			return fmt.Errorf("referential violation: %s", pe.Message)
		}
	}

	switch resp.StatusCode() {
	case 404, 406:
		return notFound
	default:
		return fmt.Errorf("postgrest: %s: %s", resp.Status(), strings.TrimSpace(string(resp.Body())))
	}
}

func (s *Store) request(ctx context.Context) *resty.Request {
	return s.client.R().SetContext(ctx)
}

func eq(v int) string { return "eq." + strconv.Itoa(v) }

// insertOne POSTs a single row and decodes the representation returned by
// PostgREST (always an array) back into out.
func (s *Store) insertOne(ctx context.Context, table string, payload, out interface{}) error {
	resp, err := s.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(payload).
		Post("/" + table)
	if err != nil {
		return fmt.Errorf("postgrest insert %s: %w", table, err)
	}
	if err := translateResponse(resp, nil); err != nil {
		return err
	}
	return decodeSingle(resp.Body(), out, nil)
}

// patchByID applies a partial update and reports notFound when no row
// matched the id filter.
func (s *Store) patchByID(ctx context.Context, table string, id int, payload, out interface{}, notFound error) error {
	resp, err := s.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", eq(id)).
		SetBody(payload).
		Patch("/" + table)
	if err != nil {
		return fmt.Errorf("postgrest update %s: %w", table, err)
	}
	if err := translateResponse(resp, notFound); err != nil {
		return err
	}
	return decodeSingle(resp.Body(), out, notFound)
}

func (s *Store) deleteByID(ctx context.Context, table string, id int, notFound error) error {
	resp, err := s.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", eq(id)).
		Delete("/" + table)
	if err != nil {
		return fmt.Errorf("postgrest delete %s: %w", table, err)
	}
	if err := translateResponse(resp, notFound); err != nil {
		return err
	}
	var deleted []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &deleted); err != nil {
		return fmt.Errorf("postgrest delete %s: decode: %w", table, err)
	}
	if len(deleted) == 0 {
		return notFound
	}
	return nil
}

// getList GETs rows matching the query params into out (a slice pointer).
func (s *Store) getList(ctx context.Context, table string, params map[string]string, out interface{}) error {
	req := s.request(ctx)
	for k, v := range params {
		req.SetQueryParam(k, v)
	}
	resp, err := req.Get("/" + table)
	if err != nil {
		return fmt.Errorf("postgrest list %s: %w", table, err)
	}
	if err := translateResponse(resp, nil); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("postgrest list %s: decode: %w", table, err)
	}
	return nil
}

// getOne fetches at most one row; notFound when the result set is empty.
func (s *Store) getOne(ctx context.Context, table string, params map[string]string, out interface{}, notFound error) error {
	req := s.request(ctx).SetQueryParam("limit", "1")
	for k, v := range params {
		req.SetQueryParam(k, v)
	}
	resp, err := req.Get("/" + table)
	if err != nil {
		return fmt.Errorf("postgrest get %s: %w", table, err)
	}
	if err := translateResponse(resp, notFound); err != nil {
		return err
	}
	return decodeSingle(resp.Body(), out, notFound)
}

// count asks PostgREST for an exact count without fetching rows, reading
// it from the Content-Range header ("0-0/42").
func (s *Store) count(ctx context.Context, table string, params map[string]string) (int, error) {
	req := s.request(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("select", "id").
		SetQueryParam("limit", "1")
	for k, v := range params {
		req.SetQueryParam(k, v)
	}
	resp, err := req.Get("/" + table)
	if err != nil {
		return 0, fmt.Errorf("postgrest count %s: %w", table, err)
	}
	if err := translateResponse(resp, nil); err != nil {
		return 0, err
	}

	contentRange := resp.Header().Get("Content-Range")
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return 0, fmt.Errorf("postgrest count %s: missing Content-Range header", table)
	}
	total := contentRange[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("postgrest count %s: server did not return an exact count", table)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("postgrest count %s: bad Content-Range %q: %w", table, contentRange, err)
	}
	return n, nil
}

func decodeSingle(body []byte, out interface{}, notFound error) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("postgrest: decode representation: %w", err)
	}
	if len(raw) == 0 {
		if notFound != nil {
			return notFound
		}
		return fmt.Errorf("postgrest: empty representation returned")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw[0], out); err != nil {
		return fmt.Errorf("postgrest: decode row: %w", err)
	}
	return nil
}
