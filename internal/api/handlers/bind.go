package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bindJSONBody decodes the request body into obj. A missing or empty body
// leaves obj untouched so handlers treat it as a request with no fields.
func bindJSONBody(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// castString converts a decoded JSON scalar to the string stored at path.
// Null comes back as nil; objects and arrays cannot be cast.
func castString(path string, raw interface{}) (*string, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return nil, fmt.Errorf("Cast to string failed for value of type %T at path %q", raw, path)
	}
	return &s, nil
}
