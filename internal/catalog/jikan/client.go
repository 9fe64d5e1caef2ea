// Package jikan is the client for the MAL-style REST catalog (Jikan v4 API).
package jikan

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

const (
	baseURL = "https://api.jikan.moe/v4"

	// Jikan allows 3 requests per second
	rateLimit = 3

	searchLimit = 10
)

// JikanClient fetches and searches MyAnimeList data through Jikan.
type JikanClient struct {
	transport *catalog.Transport
}

var _ catalog.Client = (*JikanClient)(nil)

// NewClient creates a new Jikan API client
func NewClient(opts catalog.Options) *JikanClient {
	return &JikanClient{transport: catalog.NewTransport(models.SourceMAL, opts, baseURL, rateLimit)}
}

func (c *JikanClient) Source() models.Source { return models.SourceMAL }

func (c *JikanClient) Supports(entity models.EntityType) bool {
	_, ok := resourcePath(entity)
	return ok
}

func resourcePath(entity models.EntityType) (string, bool) {
	switch entity {
	case models.EntityAnime:
		return "anime", true
	case models.EntityCharacter:
		return "characters", true
	case models.EntityPerson:
		return "people", true
	default:
		return "", false
	}
}

// FetchByID fetches /{entity}/{id}/full.
func (c *JikanClient) FetchByID(ctx context.Context, entity models.EntityType, id string) (*catalog.Payload, error) {
	path, ok := resourcePath(entity)
	if !ok {
		return nil, models.NewSourceError(models.SourceMAL, models.KindInvalidRequest, "unsupported entity %q", entity)
	}
	malID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || malID <= 0 {
		return nil, models.NewSourceError(models.SourceMAL, models.KindInvalidRequest, "invalid MAL id %q", id)
	}

	body, err := c.get(ctx, fmt.Sprintf("/%s/%d/full", path, malID))
	if err != nil {
		return nil, err
	}

	switch entity {
	case models.EntityAnime:
		var env envelope[Anime]
		if err := decodeData(body, &env, &env.Data); err != nil {
			return nil, err
		}
		return convertAnime(env.Data), nil
	case models.EntityCharacter:
		var env envelope[Character]
		if err := decodeData(body, &env, &env.Data); err != nil {
			return nil, err
		}
		return convertCharacter(env.Data), nil
	default:
		var env envelope[Person]
		if err := decodeData(body, &env, &env.Data); err != nil {
			return nil, err
		}
		return convertPerson(env.Data), nil
	}
}

// Search runs /{entity}?q=&page=&limit=.
func (c *JikanClient) Search(ctx context.Context, entity models.EntityType, text string, page int) ([]catalog.Payload, error) {
	path, ok := resourcePath(entity)
	if !ok {
		return nil, models.NewSourceError(models.SourceMAL, models.KindInvalidRequest, "unsupported entity %q", entity)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewSourceError(models.SourceMAL, models.KindInvalidRequest, "empty search text")
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("q", text)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(searchLimit))

	body, err := c.get(ctx, "/"+path+"?"+params.Encode())
	if err != nil {
		if models.AsSourceError(models.SourceMAL, err).Kind == models.KindNotFound {
			return nil, nil
		}
		return nil, err
	}

	var out []catalog.Payload
	switch entity {
	case models.EntityAnime:
		var env listEnvelope[Anime]
		if err := catalog.DecodeJSON(models.SourceMAL, body, &env); err != nil {
			return nil, err
		}
		for i := range env.Data {
			out = append(out, *convertAnime(&env.Data[i]))
		}
	case models.EntityCharacter:
		var env listEnvelope[Character]
		if err := catalog.DecodeJSON(models.SourceMAL, body, &env); err != nil {
			return nil, err
		}
		for i := range env.Data {
			out = append(out, *convertCharacter(&env.Data[i]))
		}
	default:
		var env listEnvelope[Person]
		if err := catalog.DecodeJSON(models.SourceMAL, body, &env); err != nil {
			return nil, err
		}
		for i := range env.Data {
			out = append(out, *convertPerson(&env.Data[i]))
		}
	}
	return out, nil
}

// get performs the request and maps status codes and empty bodies.
func (c *JikanClient) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.transport.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if se := catalog.StatusError(models.SourceMAL, resp); se != nil {
		var eb errorBody
		if catalog.DecodeJSON(models.SourceMAL, resp.Body, &eb) == nil && eb.Message != "" {
			se.Message = fmt.Sprintf("%s: %s", se.Message, eb.Message)
		}
		return nil, se
	}
	if catalog.IsEmptyBody(resp.Body) {
		return nil, models.NewSourceError(models.SourceMAL, models.KindNotFound, "empty response for %s", path)
	}
	return resp.Body, nil
}

// decodeData decodes body into env and rejects a null data member.
func decodeData[T any](body []byte, env any, data **T) error {
	if err := catalog.DecodeJSON(models.SourceMAL, body, env); err != nil {
		return err
	}
	if *data == nil {
		return models.NewSourceError(models.SourceMAL, models.KindMalformed, "response has no data")
	}
	return nil
}
