// internal/handlers/graphql.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/campus-marketplace/internal/graph"
	"github.com/javajoker/campus-marketplace/internal/i18n"
	"github.com/javajoker/campus-marketplace/internal/services"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema        *graphql.Schema
	maxUploadSize int64
}

func NewGraphQLHandler(schema *graphql.Schema, maxUploadSize int64) *GraphQLHandler {
	return &GraphQLHandler{
		schema:        schema,
		maxUploadSize: maxUploadSize,
	}
}

// POST /graphql
// Accepts JSON bodies and multipart requests carrying "operations", "map"
// and one part per file.
func (h *GraphQLHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()

	var req graphQLRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		files, closeFiles, err := h.readMultipart(c, &req)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				lang := utils.GetLangFromContext(c)
				message := i18n.T(lang, i18n.KeyFileTooLarge, h.maxUploadSize)
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"errors": []gin.H{{"message": message}}})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
			return
		}
		defer closeFiles()
		ctx = graph.WithUploads(ctx, files)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "Request body must be a GraphQL JSON document"}}})
		return
	}

	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "Must provide query string."}}})
		return
	}

	response := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	if len(response.Errors) > 0 {
		logrus.WithFields(logrus.Fields{
			"operation": req.OperationName,
			"errors":    len(response.Errors),
		}).Debug("GraphQL request returned errors")
	}

	c.JSON(http.StatusOK, response)
}

// readMultipart decodes the operations part into req and replaces every
// mapped variable with the name of the part holding its file.
func (h *GraphQLHandler) readMultipart(c *gin.Context, req *graphQLRequest) (map[string]services.ImageUpload, func(), error) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid multipart request: %w", err)
	}

	if err := json.Unmarshal([]byte(firstValue(form, "operations")), req); err != nil {
		return nil, nil, fmt.Errorf("invalid operations part: %w", err)
	}
	var fileMap map[string][]string
	if err := json.Unmarshal([]byte(firstValue(form, "map")), &fileMap); err != nil {
		return nil, nil, fmt.Errorf("invalid map part: %w", err)
	}
	if req.Variables == nil {
		req.Variables = map[string]interface{}{}
	}

	files := make(map[string]services.ImageUpload, len(fileMap))
	var opened []multipart.File
	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for part, paths := range fileMap {
		headers := form.File[part]
		if len(headers) == 0 {
			closeFiles()
			return nil, nil, fmt.Errorf("file part %q is missing", part)
		}
		file, err := headers[0].Open()
		if err != nil {
			closeFiles()
			return nil, nil, fmt.Errorf("failed to open file part %q: %w", part, err)
		}
		opened = append(opened, file)

		files[part] = services.ImageUpload{
			Filename:    headers[0].Filename,
			ContentType: headers[0].Header.Get("Content-Type"),
			Size:        headers[0].Size,
			Content:     file,
		}

		for _, p := range paths {
			if err := setVariable(req.Variables, p, part); err != nil {
				closeFiles()
				return nil, nil, err
			}
		}
	}

	return files, closeFiles, nil
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// setVariable writes value at a map path such as "variables.file.0".
func setVariable(variables map[string]interface{}, path string, value interface{}) error {
	segments := strings.Split(path, ".")
	if len(segments) < 2 || segments[0] != "variables" {
		return fmt.Errorf("unsupported file path %q", path)
	}
	segments = segments[1:]

	var current interface{} = variables
	for i, segment := range segments {
		last := i == len(segments)-1
		switch node := current.(type) {
		case map[string]interface{}:
			if last {
				node[segment] = value
				return nil
			}
			current = node[segment]
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return fmt.Errorf("invalid index %q in file path %q", segment, path)
			}
			if last {
				node[index] = value
				return nil
			}
			current = node[index]
		default:
			return fmt.Errorf("file path %q does not match the variables", path)
		}
	}
	return nil
}
