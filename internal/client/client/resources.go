package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
)

// Resource groups are thin named wrappers over Requester. They add no
// state and no failure semantics of their own. Project-scoped groups use
// the /{resource}/{project_id}[/...] path convention.

// scopedPath builds "/resource/{projectID}/rest...", escaping each segment.
func scopedPath(resource, projectID string, rest ...string) string {
	parts := make([]string, 0, len(rest)+2)
	parts = append(parts, resource, url.PathEscape(projectID))
	for _, r := range rest {
		parts = append(parts, url.PathEscape(r))
	}
	return "/" + strings.Join(parts, "/")
}

func rawJSON(ctx context.Context, r Requester, method, path string, body any, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.Request(ctx, method, path, body, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AuthTransport is what the auth group needs: login goes through the
// public path, everything else is authenticated.
type AuthTransport interface {
	Requester
	PublicRequester
}

type Auth struct{ t AuthTransport }

func NewAuth(t AuthTransport) Auth { return Auth{t: t} }

func (a Auth) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var pair models.TokenPair
	err := a.t.Public(ctx, http.MethodPost, "/auth/login", creds, &pair)
	return pair, err
}

func (a Auth) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.t.Request(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.t.Request(ctx, http.MethodPost, "/auth/logout", models.RefreshRequest{RefreshToken: refreshToken}, nil, nil)
}

type Projects struct{ r Requester }

func NewProjects(r Requester) Projects { return Projects{r: r} }

func (p Projects) List(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := p.r.Request(ctx, http.MethodGet, "/projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p Projects) Create(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	var out models.Project
	if err := p.r.Request(ctx, http.MethodPost, "/projects", in, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p Projects) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	var out models.Project
	if err := p.r.Request(ctx, http.MethodPatch, "/projects/"+url.PathEscape(id), patch, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Orders struct{ r Requester }

func NewOrders(r Requester) Orders { return Orders{r: r} }

func (o Orders) List(ctx context.Context, projectID string, query url.Values) (json.RawMessage, error) {
	return rawJSON(ctx, o.r, http.MethodGet, scopedPath("orders", projectID), nil, query)
}

func (o Orders) Get(ctx context.Context, projectID, orderID string) (json.RawMessage, error) {
	return rawJSON(ctx, o.r, http.MethodGet, scopedPath("orders", projectID, orderID), nil, nil)
}

func (o Orders) UpdateStatus(ctx context.Context, projectID, orderID, status string) (json.RawMessage, error) {
	body := map[string]string{"status": status}
	return rawJSON(ctx, o.r, http.MethodPatch, scopedPath("orders", projectID, orderID, "status"), body, nil)
}

type Messages struct{ r Requester }

func NewMessages(r Requester) Messages { return Messages{r: r} }

func (m Messages) List(ctx context.Context, projectID string, query url.Values) (json.RawMessage, error) {
	return rawJSON(ctx, m.r, http.MethodGet, scopedPath("messages", projectID), nil, query)
}

func (m Messages) Reply(ctx context.Context, projectID, messageID, text string) (json.RawMessage, error) {
	body := map[string]string{"text": text}
	return rawJSON(ctx, m.r, http.MethodPost, scopedPath("messages", projectID, messageID, "reply"), body, nil)
}

// SuggestReply asks the backend assistant to draft a reply.
func (m Messages) SuggestReply(ctx context.Context, projectID, messageID string) (json.RawMessage, error) {
	return rawJSON(ctx, m.r, http.MethodPost, scopedPath("messages", projectID, messageID, "suggest-reply"), nil, nil)
}

func (m Messages) Stats(ctx context.Context, projectID string) (json.RawMessage, error) {
	return rawJSON(ctx, m.r, http.MethodGet, scopedPath("messages", projectID, "stats"), nil, nil)
}

type Integrations struct{ r Requester }

func NewIntegrations(r Requester) Integrations { return Integrations{r: r} }

func (i Integrations) List(ctx context.Context, projectID string) (json.RawMessage, error) {
	return rawJSON(ctx, i.r, http.MethodGet, scopedPath("integrations", projectID), nil, nil)
}

func (i Integrations) Connect(ctx context.Context, projectID, kind string, settings map[string]string) (json.RawMessage, error) {
	return rawJSON(ctx, i.r, http.MethodPost, scopedPath("integrations", projectID, kind), settings, nil)
}

func (i Integrations) Disconnect(ctx context.Context, projectID, kind string) error {
	return i.r.Request(ctx, http.MethodDelete, scopedPath("integrations", projectID, kind), nil, nil, nil)
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Assistant struct{ r Requester }

func NewAssistant(r Requester) Assistant { return Assistant{r: r} }

func (a Assistant) Chat(ctx context.Context, projectID, message string, history []ChatMessage) (json.RawMessage, error) {
	body := struct {
		Message string        `json:"message"`
		History []ChatMessage `json:"history"`
	}{Message: message, History: history}
	if body.History == nil {
		body.History = []ChatMessage{}
	}
	return rawJSON(ctx, a.r, http.MethodPost, scopedPath("assistant", projectID, "chat"), body, nil)
}

type Reports struct{ r Requester }

func NewReports(r Requester) Reports { return Reports{r: r} }

func (rp Reports) Get(ctx context.Context, projectID, period string) (json.RawMessage, error) {
	var q url.Values
	if period != "" {
		q = url.Values{"period": {period}}
	}
	return rawJSON(ctx, rp.r, http.MethodGet, scopedPath("reports", projectID), nil, q)
}

func (rp Reports) Generate(ctx context.Context, projectID, period string) (json.RawMessage, error) {
	body := map[string]string{"period": period}
	return rawJSON(ctx, rp.r, http.MethodPost, scopedPath("reports", projectID, "generate"), body, nil)
}

type Subscriptions struct{ r Requester }

func NewSubscriptions(r Requester) Subscriptions { return Subscriptions{r: r} }

func (s Subscriptions) Current(ctx context.Context, projectID string) (json.RawMessage, error) {
	return rawJSON(ctx, s.r, http.MethodGet, scopedPath("subscriptions", projectID), nil, nil)
}

func (s Subscriptions) Usage(ctx context.Context, projectID string) (json.RawMessage, error) {
	return rawJSON(ctx, s.r, http.MethodGet, scopedPath("subscriptions", projectID, "usage"), nil, nil)
}

type Products struct{ r Requester }

func NewProducts(r Requester) Products { return Products{r: r} }

func (p Products) List(ctx context.Context, projectID string) (json.RawMessage, error) {
	return rawJSON(ctx, p.r, http.MethodGet, scopedPath("products", projectID), nil, nil)
}

func (p Products) Create(ctx context.Context, projectID string, product any) (json.RawMessage, error) {
	return rawJSON(ctx, p.r, http.MethodPost, scopedPath("products", projectID), product, nil)
}

func (p Products) Update(ctx context.Context, projectID, productID string, patch any) (json.RawMessage, error) {
	return rawJSON(ctx, p.r, http.MethodPatch, scopedPath("products", projectID, productID), patch, nil)
}

func (p Products) Delete(ctx context.Context, projectID, productID string) error {
	return p.r.Request(ctx, http.MethodDelete, scopedPath("products", projectID, productID), nil, nil, nil)
}

type BotTraining struct{ r Requester }

func NewBotTraining(r Requester) BotTraining { return BotTraining{r: r} }

func (b BotTraining) List(ctx context.Context, projectID string) (json.RawMessage, error) {
	return rawJSON(ctx, b.r, http.MethodGet, scopedPath("bot-training", projectID), nil, nil)
}

func (b BotTraining) Add(ctx context.Context, projectID string, item any) (json.RawMessage, error) {
	return rawJSON(ctx, b.r, http.MethodPost, scopedPath("bot-training", projectID), item, nil)
}

func (b BotTraining) Delete(ctx context.Context, projectID, itemID string) error {
	return b.r.Request(ctx, http.MethodDelete, scopedPath("bot-training", projectID, itemID), nil, nil, nil)
}
