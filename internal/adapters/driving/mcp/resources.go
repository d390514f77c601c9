package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recall/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for recall resources.
	uriScheme = "recall://"

	conversationsPrefix = uriScheme + "conversations/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "projects",
		Name:        "projects",
		Description: "Projects with conversation transcripts",
		MIMEType:    "application/json",
	}, s.handleProjectsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: conversationsPrefix + "{project}/{id}",
		Name:        "conversation",
		Description: "Plain-text transcript of one conversation",
		MIMEType:    "text/plain",
	}, s.handleConversationResource)
}

// handleProjectsResource returns every project as JSON.
func (s *Server) handleProjectsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	projects := s.ports.Conversations.ListProjects(ctx)

	infos := make([]ProjectOutput, len(projects))
	for i, p := range projects {
		infos[i] = ProjectOutput{Key: p.Key, Name: p.Name, ConversationCount: p.ConversationCount}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling projects: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleConversationResource renders a conversation as plain text.
func (s *Server) handleConversationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	project, id := extractConversationRef(req.Params.URI)
	if project == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	conv, err := s.ports.Conversations.GetConversation(ctx, project, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     conv.PlainText(),
		}},
	}, nil
}

// conversationURI builds recall://conversations/{project}/{id}.
func conversationURI(project, id string) string {
	return conversationsPrefix + project + "/" + id
}

// extractConversationRef parses recall://conversations/{project}/{id}.
// Both parts are empty when the URI does not match.
func extractConversationRef(uri string) (project, id string) {
	if !strings.HasPrefix(uri, conversationsPrefix) {
		return "", ""
	}

	parts := strings.Split(strings.TrimPrefix(uri, conversationsPrefix), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ""
	}
	return parts[0], parts[1]
}
