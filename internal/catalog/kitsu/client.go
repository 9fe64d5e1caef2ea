// Package kitsu is the client for the Kitsu JSON:API catalog.
package kitsu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

const (
	baseURL   = "https://kitsu.io/api/edge"
	rateLimit = 5

	pageLimit = 10
)

// KitsuClient fetches and searches the Kitsu catalog.
type KitsuClient struct {
	transport *catalog.Transport
}

var (
	_ catalog.Client        = (*KitsuClient)(nil)
	_ catalog.ForeignLookup = (*KitsuClient)(nil)
)

func NewClient(opts catalog.Options) *KitsuClient {
	return &KitsuClient{transport: catalog.NewTransport(models.SourceKitsu, opts, baseURL, rateLimit)}
}

func (c *KitsuClient) Source() models.Source { return models.SourceKitsu }

func (c *KitsuClient) Supports(entity models.EntityType) bool {
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

// FetchByID fetches a single resource. Anime requests include mappings and
// categories so cross-references and genres arrive in one round trip.
func (c *KitsuClient) FetchByID(ctx context.Context, entity models.EntityType, id string) (*catalog.Payload, error) {
	path, ok := resourcePath(entity)
	if !ok {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindInvalidRequest, "unsupported entity %q", entity)
	}
	kitsuID, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || kitsuID <= 0 {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindInvalidRequest, "invalid Kitsu id %q", id)
	}

	reqPath := fmt.Sprintf("/%s/%d", path, kitsuID)
	if entity == models.EntityAnime {
		reqPath += "?include=mappings,categories"
	}
	doc, err := c.get(ctx, reqPath)
	if err != nil {
		return nil, err
	}

	var r *resource
	if err := catalog.DecodeJSON(models.SourceKitsu, doc.Data, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindMalformed, "response has no data")
	}
	return convert(entity, r, doc.Included)
}

// Search uses filter[text] for anime and filter[name] for characters and people.
func (c *KitsuClient) Search(ctx context.Context, entity models.EntityType, text string, page int) ([]catalog.Payload, error) {
	path, ok := resourcePath(entity)
	if !ok {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindInvalidRequest, "unsupported entity %q", entity)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindInvalidRequest, "empty search text")
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	if entity == models.EntityAnime {
		params.Set("filter[text]", text)
		params.Set("include", "mappings,categories")
	} else {
		params.Set("filter[name]", text)
	}
	params.Set("page[limit]", strconv.Itoa(pageLimit))
	params.Set("page[offset]", strconv.Itoa((page-1)*pageLimit))

	doc, err := c.get(ctx, "/"+path+"?"+params.Encode())
	if err != nil {
		if models.AsSourceError(models.SourceKitsu, err).Kind == models.KindNotFound {
			return nil, nil
		}
		return nil, err
	}

	var list []resource
	if err := catalog.DecodeJSON(models.SourceKitsu, doc.Data, &list); err != nil {
		return nil, err
	}
	out := make([]catalog.Payload, 0, len(list))
	for i := range list {
		p, err := convert(entity, &list[i], doc.Included)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// LookupForeign finds the Kitsu anime id mapped to a MAL or AniList id.
func (c *KitsuClient) LookupForeign(ctx context.Context, entity models.EntityType, foreign models.SourceID) (string, error) {
	site, ok := siteFor(foreign.Source)
	if entity != models.EntityAnime || !ok || foreign.Value == "" {
		return "", models.NewSourceError(models.SourceKitsu, models.KindUnresolvable, "no %s mapping for %s", entity, foreign)
	}

	params := url.Values{}
	params.Set("filter[externalSite]", site)
	params.Set("filter[externalId]", foreign.Value)
	params.Set("include", "item")
	doc, err := c.get(ctx, "/mappings?"+params.Encode())
	if err != nil {
		return "", err
	}

	var mappings []resource
	if err := catalog.DecodeJSON(models.SourceKitsu, doc.Data, &mappings); err != nil {
		return "", err
	}
	for i := range mappings {
		rel, ok := mappings[i].Relationships["item"]
		if !ok {
			continue
		}
		var item identifier
		if json.Unmarshal(rel.Data, &item) == nil && item.Type == "anime" && item.ID != "" {
			return item.ID, nil
		}
	}
	// Fall back to the included item when the relationship carries no linkage.
	for _, inc := range doc.Included {
		if inc.Type == "anime" && inc.ID != "" {
			return inc.ID, nil
		}
	}
	return "", models.NewSourceError(models.SourceKitsu, models.KindNotFound, "no anime mapped to %s", foreign)
}

func convert(entity models.EntityType, r *resource, included []resource) (*catalog.Payload, error) {
	switch entity {
	case models.EntityAnime:
		return convertAnime(r, included)
	case models.EntityCharacter:
		return convertCharacter(r)
	default:
		return convertPerson(r)
	}
}

// get performs the request and decodes the JSON:API document. Error
// documents are reported with their first title or detail.
func (c *KitsuClient) get(ctx context.Context, path string) (*document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.transport.BaseURL()+path, nil)
	if err != nil {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindInvalidRequest, "build request: %v", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if se := catalog.StatusError(models.SourceKitsu, resp); se != nil {
		var doc document
		if json.Unmarshal(resp.Body, &doc) == nil && len(doc.Errors) > 0 {
			msg := doc.Errors[0].Detail
			if msg == "" {
				msg = doc.Errors[0].Title
			}
			if msg != "" {
				se.Message = fmt.Sprintf("%s: %s", se.Message, msg)
			}
		}
		return nil, se
	}
	if catalog.IsEmptyBody(resp.Body) {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindNotFound, "empty response for %s", path)
	}

	var doc document
	if err := catalog.DecodeJSON(models.SourceKitsu, resp.Body, &doc); err != nil {
		return nil, err
	}
	if len(doc.Errors) > 0 {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindMalformed, "%s", doc.Errors[0].Title)
	}
	if len(doc.Data) == 0 || string(doc.Data) == "null" {
		return nil, models.NewSourceError(models.SourceKitsu, models.KindMalformed, "response has no data")
	}
	return &doc, nil
}
