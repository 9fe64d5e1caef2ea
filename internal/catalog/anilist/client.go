// Package anilist is the client for the AniList GraphQL media graph.
package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

const (
	apiURL = "https://graphql.anilist.co"

	// Rate limiting: AniList allows ~90 requests per minute
	rateLimit = 1.5

	searchPerPage = 10
)

// AniListClient handles GraphQL API requests with rate limiting
type AniListClient struct {
	transport *catalog.Transport
}

var (
	_ catalog.Client        = (*AniListClient)(nil)
	_ catalog.ForeignLookup = (*AniListClient)(nil)
)

// NewClient creates a new AniList API client
func NewClient(opts catalog.Options) *AniListClient {
	return &AniListClient{transport: catalog.NewTransport(models.SourceAniList, opts, apiURL, rateLimit)}
}

func (c *AniListClient) Source() models.Source { return models.SourceAniList }

func (c *AniListClient) Supports(entity models.EntityType) bool {
	switch entity {
	case models.EntityAnime, models.EntityCharacter, models.EntityPerson:
		return true
	}
	return false
}

// FetchByID fetches a media, character or staff entry by AniList id.
func (c *AniListClient) FetchByID(ctx context.Context, entity models.EntityType, id string) (*catalog.Payload, error) {
	alID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || alID <= 0 {
		return nil, models.NewSourceError(models.SourceAniList, models.KindInvalidRequest, "invalid AniList id %q", id)
	}
	variables := map[string]any{"id": alID}

	switch entity {
	case models.EntityAnime:
		var result mediaResponse
		if err := c.doRequest(ctx, mediaByIDQuery, variables, &result); err != nil {
			return nil, err
		}
		if result.Media == nil {
			return nil, notFound(entity, id)
		}
		return convertMedia(result.Media), nil
	case models.EntityCharacter:
		var result characterResponse
		if err := c.doRequest(ctx, characterByIDQuery, variables, &result); err != nil {
			return nil, err
		}
		if result.Character == nil {
			return nil, notFound(entity, id)
		}
		return convertCharacter(result.Character), nil
	case models.EntityPerson:
		var result staffResponse
		if err := c.doRequest(ctx, staffByIDQuery, variables, &result); err != nil {
			return nil, err
		}
		if result.Staff == nil {
			return nil, notFound(entity, id)
		}
		return convertStaff(result.Staff), nil
	default:
		return nil, models.NewSourceError(models.SourceAniList, models.KindInvalidRequest, "unsupported entity %q", entity)
	}
}

// Search runs a Page query ordered by search relevance.
func (c *AniListClient) Search(ctx context.Context, entity models.EntityType, text string, page int) ([]catalog.Payload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewSourceError(models.SourceAniList, models.KindInvalidRequest, "empty search text")
	}
	if page < 1 {
		page = 1
	}

	var query string
	switch entity {
	case models.EntityAnime:
		query = searchMediaQuery
	case models.EntityCharacter:
		query = searchCharactersQuery
	case models.EntityPerson:
		query = searchStaffQuery
	default:
		return nil, models.NewSourceError(models.SourceAniList, models.KindInvalidRequest, "unsupported entity %q", entity)
	}

	variables := map[string]any{
		"search":  text,
		"page":    page,
		"perPage": searchPerPage,
	}
	var result searchResponse
	if err := c.doRequest(ctx, query, variables, &result); err != nil {
		if models.AsSourceError(models.SourceAniList, err).Kind == models.KindNotFound {
			return nil, nil
		}
		return nil, err
	}

	var out []catalog.Payload
	for i := range result.Page.Media {
		out = append(out, *convertMedia(&result.Page.Media[i]))
	}
	for i := range result.Page.Characters {
		out = append(out, *convertCharacter(&result.Page.Characters[i]))
	}
	for i := range result.Page.Staff {
		out = append(out, *convertStaff(&result.Page.Staff[i]))
	}
	return out, nil
}

// LookupForeign maps a MAL anime id to the AniList id via Media(idMal:).
// AniList keeps no foreign ids for characters or staff.
func (c *AniListClient) LookupForeign(ctx context.Context, entity models.EntityType, foreign models.SourceID) (string, error) {
	malID, ok := foreign.Int()
	if entity != models.EntityAnime || foreign.Source != models.SourceMAL || !ok {
		return "", models.NewSourceError(models.SourceAniList, models.KindUnresolvable, "no %s mapping for %s", entity, foreign)
	}
	var result struct {
		Media *struct {
			ID int `json:"id"`
		} `json:"Media"`
	}
	if err := c.doRequest(ctx, mediaByMalQuery, map[string]any{"idMal": malID}, &result); err != nil {
		return "", err
	}
	if result.Media == nil || result.Media.ID <= 0 {
		return "", notFound(entity, foreign.String())
	}
	return strconv.Itoa(result.Media.ID), nil
}

// doRequest performs one GraphQL request. The first GraphQL error, if any,
// becomes the failure message; its status picks the error kind.
func (c *AniListClient) doRequest(ctx context.Context, query string, variables map[string]any, result any) error {
	resp, err := c.transport.PostJSON(ctx, "", GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	var gqlResp GraphQLResponse
	decodeErr := catalog.DecodeJSON(models.SourceAniList, resp.Body, &gqlResp)

	if decodeErr == nil && len(gqlResp.Errors) > 0 {
		first := gqlResp.Errors[0]
		status := first.Status
		if status == 0 {
			status = resp.Status
		}
		return models.NewSourceError(models.SourceAniList, graphQLKind(status), "%s", first.Message)
	}
	if se := catalog.StatusError(models.SourceAniList, resp); se != nil {
		return se
	}
	if catalog.IsEmptyBody(resp.Body) {
		return models.NewSourceError(models.SourceAniList, models.KindNotFound, "empty response")
	}
	if decodeErr != nil {
		return decodeErr
	}
	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return models.NewSourceError(models.SourceAniList, models.KindMalformed, "response has no data")
	}
	if err := json.Unmarshal(gqlResp.Data, result); err != nil {
		return &models.SourceError{Source: models.SourceAniList, Kind: models.KindMalformed, Message: "decode data: " + err.Error(), Err: err}
	}
	return nil
}

func graphQLKind(status int) models.ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return models.KindNotFound
	case status == http.StatusTooManyRequests:
		return models.KindRateLimited
	case status == http.StatusBadRequest:
		return models.KindInvalidRequest
	case status >= 200 && status < 300:
		// Errors on a 200 are partial failures of the query itself.
		return models.KindMalformed
	default:
		return models.KindUnavailable
	}
}

func notFound(entity models.EntityType, id string) error {
	return models.NewSourceError(models.SourceAniList, models.KindNotFound, "%s %s not found", entity, id)
}
