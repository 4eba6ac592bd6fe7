package basecamp

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// GetDocuments lists the documents in a vault across all pages.
func (c *Client) GetDocuments(ctx context.Context, projectID, vaultID int64) ([]Item, error) {
	var docs []Item
	path := fmt.Sprintf("buckets/%d/vaults/%d/documents.json", projectID, vaultID)
	if err := c.FetchAllInto(ctx, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocument fetches one document with its full content.
func (c *Client) GetDocument(ctx context.Context, projectID, documentID int64) (Item, error) {
	var doc Item
	path := fmt.Sprintf("buckets/%d/documents/%d.json", projectID, documentID)
	if err := c.Get(ctx, path, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateDocument adds a document to a vault. content is rich text (HTML).
func (c *Client) CreateDocument(ctx context.Context, projectID, vaultID int64, title, content string) (Item, error) {
	var doc Item
	path := fmt.Sprintf("buckets/%d/vaults/%d/documents.json", projectID, vaultID)
	payload := map[string]string{"title": title, "content": content, "status": "active"}
	if err := c.Post(ctx, path, payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument replaces the set fields of a document.
func (c *Client) UpdateDocument(ctx context.Context, projectID, documentID int64, title, content string) (Item, error) {
	payload := map[string]string{}
	if title != "" {
		payload["title"] = title
	}
	if content != "" {
		payload["content"] = content
	}
	var doc Item
	path := fmt.Sprintf("buckets/%d/documents/%d.json", projectID, documentID)
	if err := c.Put(ctx, path, payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetUploads lists the file uploads in a vault, or across the whole project
// when vaultID is 0.
func (c *Client) GetUploads(ctx context.Context, projectID, vaultID int64) ([]Item, error) {
	path := fmt.Sprintf("buckets/%d/uploads.json", projectID)
	if vaultID != 0 {
		path = fmt.Sprintf("buckets/%d/vaults/%d/uploads.json", projectID, vaultID)
	}
	var uploads []Item
	if err := c.FetchAllInto(ctx, path, nil, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

// GetUpload fetches one upload's metadata.
func (c *Client) GetUpload(ctx context.Context, projectID, uploadID int64) (Item, error) {
	var upload Item
	path := fmt.Sprintf("buckets/%d/uploads/%d.json", projectID, uploadID)
	if err := c.Get(ctx, path, nil, &upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// CreateAttachment uploads raw file bytes and returns the attachable_sgid
// payload used to reference the file from rich text or uploads.
func (c *Client) CreateAttachment(ctx context.Context, name, contentType string, data io.Reader) (Item, error) {
	var attachment Item
	query := url.Values{"name": {name}}
	if err := c.PostBinary(ctx, "attachments.json", query, contentType, data, &attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}
