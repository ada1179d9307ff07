package server

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/spelunkicons/internal/config"
	"github.com/lawnchairsociety/spelunkicons/internal/database"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

const pngSuffix = ".png"

// maxMisc is the largest misc attempt count; larger values are clamped.
const maxMisc = 255

// iconRequest is a validated icon request.
type iconRequest struct {
	input string
	size  int
	misc  uint8
	egg   string
	px    int // 0 keeps the native raster size
}

// key is the cache key for r rendered from the atlas set atlasID.
func (r iconRequest) key(atlasID string) database.RenderKey {
	return database.RenderKey{
		Atlas:  atlasID,
		Input:  r.input,
		Size:   r.size,
		Misc:   int(r.misc),
		Egg:    r.egg,
		Pixels: r.px,
	}
}

// requestError carries the HTTP status a bad request maps to.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func notFound(msg string) *requestError   { return &requestError{http.StatusNotFound, msg} }
func badRequest(msg string) *requestError { return &requestError{http.StatusBadRequest, msg} }

// parseIconPath validates the last path segment of an icon URL and its query.
func parseIconPath(urlPath string, query url.Values, cfg config.IconsConfig) (iconRequest, *requestError) {
	name := path.Base(urlPath)
	if !strings.HasSuffix(name, pngSuffix) {
		return iconRequest{}, notFound("not a png")
	}
	return parseIconParams(strings.TrimSuffix(name, pngSuffix), query, cfg)
}

// parsePreviewLine parses one live preview message: "input" or "input?query".
func parsePreviewLine(line string, cfg config.IconsConfig) (iconRequest, *requestError) {
	input, rawQuery, _ := strings.Cut(line, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return iconRequest{}, badRequest("malformed query")
	}
	return parseIconParams(input, query, cfg)
}

func parseIconParams(input string, query url.Values, cfg config.IconsConfig) (iconRequest, *requestError) {
	if len(input) == 0 || len(input) > cfg.MaxInputLength {
		return iconRequest{}, notFound(fmt.Sprintf("input must be 1 to %d bytes", cfg.MaxInputLength))
	}

	req := iconRequest{input: input, egg: query.Get("egg")}

	size, ok := parseSize(query, cfg.DefaultSize)
	if !ok {
		return iconRequest{}, badRequest(fmt.Sprintf("size must be %d to %d", spelunkicon.MinSize, spelunkicon.MaxSize))
	}
	req.size = size

	misc := uint64(cfg.DefaultMisc)
	if query.Has("misc") {
		n, err := strconv.ParseUint(query.Get("misc"), 10, 32)
		if err != nil {
			return iconRequest{}, badRequest("misc must be a non-negative integer")
		}
		misc = n
	}
	req.misc = uint8(min(misc, maxMisc))

	if query.Has("px") {
		px, err := strconv.Atoi(query.Get("px"))
		if err != nil || px < cfg.MinPixels || px > cfg.MaxPixels {
			return iconRequest{}, badRequest(fmt.Sprintf("px must be %d to %d", cfg.MinPixels, cfg.MaxPixels))
		}
		req.px = px
	}

	return req, nil
}

// parseSize accepts only the single digits 3 through 8.
func parseSize(query url.Values, fallback int) (int, bool) {
	if !query.Has("size") {
		return fallback, fallback >= spelunkicon.MinSize && fallback <= spelunkicon.MaxSize
	}
	s := query.Get("size")
	if len(s) != 1 || s[0] < '0'+spelunkicon.MinSize || s[0] > '0'+spelunkicon.MaxSize {
		return 0, false
	}
	return int(s[0] - '0'), true
}
