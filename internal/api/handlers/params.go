package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// listParam collects a multi-value query parameter. Both repeated params
// (?model=A&model=B) and comma-separated values (?model=A,B) are
// accepted, under any of the given aliases.
func listParam(c *gin.Context, names ...string) []string {
	var raw []string
	for _, name := range names {
		raw = c.QueryArray(name)
		if len(raw) > 0 {
			break
		}
		if single := strings.TrimSpace(c.Query(name)); single != "" {
			raw = []string{single}
			break
		}
	}
	if len(raw) == 0 {
		return nil
	}

	var values []string
	seen := make(map[string]struct{})
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	}
	return values
}

func intParam(c *gin.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func boolParam(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	return err == nil && v
}
