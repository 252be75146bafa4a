// internal/graph/upload.go
package graph

import (
	"context"
	"fmt"

	"github.com/javajoker/campus-marketplace/internal/services"
)

// Upload is a file variable of a multipart GraphQL request. The transport
// replaces each file's variable with the name of its multipart part and
// attaches the parts to the request context with WithUploads.
type Upload struct {
	Part string
}

func (Upload) ImplementsGraphQLType(name string) bool {
	return name == "Upload"
}

func (u *Upload) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		u.Part = v
		return nil
	case Upload:
		*u = v
		return nil
	default:
		return fmt.Errorf("wrong type for Upload: %T", input)
	}
}

type uploadsKey struct{}

// WithUploads attaches the files of a multipart request, keyed by part name.
func WithUploads(ctx context.Context, files map[string]services.ImageUpload) context.Context {
	return context.WithValue(ctx, uploadsKey{}, files)
}

func uploadsFromContext(ctx context.Context) map[string]services.ImageUpload {
	files, _ := ctx.Value(uploadsKey{}).(map[string]services.ImageUpload)
	return files
}

// resolveUploads returns the attached files named by uploads, in order.
func resolveUploads(ctx context.Context, uploads []Upload) ([]services.ImageUpload, error) {
	attached := uploadsFromContext(ctx)
	files := make([]services.ImageUpload, 0, len(uploads))
	for _, u := range uploads {
		file, ok := attached[u.Part]
		if !ok {
			return nil, &services.Error{
				Kind:    services.KindInvalidArgument,
				Message: fmt.Sprintf("File %s was not attached to the request", u.Part),
			}
		}
		files = append(files, file)
	}
	return files, nil
}
