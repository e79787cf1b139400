package api

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/digital-directions/stagegate/internal/config"
	"github.com/digital-directions/stagegate/pkg/openapi"
	"github.com/digital-directions/stagegate/pkg/routes"
)

var pathParamPattern = regexp.MustCompile(`\{([a-zA-Z]+)(\.\.\.)?\}`)

// buildSpec derives an OpenAPI document from the registered route groups.
// Operation detail stays coarse: paths, methods, and path parameters. The
// handlers remain the authority on payload shapes.
func buildSpec(cfg *config.Config, groups ...routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.Docs.Title, cfg.Version)
	spec.SetDescription(cfg.API.Docs.Description)
	spec.AddServer(cfg.API.BasePath)

	for _, group := range groups {
		addGroup(spec, "", group)
	}

	return openapi.MarshalJSON(spec)
}

func addGroup(spec *openapi.Spec, parentPrefix string, group routes.Group) {
	prefix := parentPrefix + group.Prefix
	tag := strings.TrimPrefix(group.Prefix, "/")

	for _, route := range group.Routes {
		path := prefix + route.Pattern
		item := spec.Paths[path]
		if item == nil {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		op := &openapi.Operation{
			Tags:       []string{tag},
			Parameters: pathParams(path),
			Responses: map[int]*openapi.Response{
				200: {Description: "Success"},
			},
		}

		switch route.Method {
		case "GET":
			item.Get = op
		case "POST":
			item.Post = op
		case "PUT":
			item.Put = op
		case "DELETE":
			item.Delete = op
		}
	}

	for _, child := range group.Children {
		addGroup(spec, prefix, child)
	}
}

func pathParams(path string) []*openapi.Parameter {
	matches := pathParamPattern.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}

	params := make([]*openapi.Parameter, 0, len(matches))
	for _, m := range matches {
		params = append(params, openapi.PathParam(
			m[1],
			fmt.Sprintf("The %s path segment", m[1]),
		))
	}
	return params
}
