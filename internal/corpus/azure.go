package corpus

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-htr-bench/internal/errors"
	"go-htr-bench/pkg/models"
)

// azureSource reads pages from an Azure blob container. Blob names are
// used directly as image ids.
type azureSource struct {
	client    *azblob.Client
	container string
}

// NewAzureSource creates a source over an Azure blob container using
// shared key credentials.
func NewAzureSource(accountName, accountKey, container string) (Source, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, apperrors.NewStorageError("invalid azure credentials", container, err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create azure client", container, err)
	}

	return &azureSource{client: client, container: container}, nil
}

func (s *azureSource) List(ctx context.Context) ([]string, error) {
	var ids []string
	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to list blobs", s.container, err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name == nil || !IsImageFile(*blob.Name) {
				continue
			}
			ids = append(ids, *blob.Name)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *azureSource) Load(ctx context.Context, id string) (models.ImageAsset, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, id, nil)
	if err != nil {
		return models.ImageAsset{}, apperrors.NewStorageError("blob download failed", id, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ImageAsset{}, apperrors.NewStorageError("failed to read blob stream", id, err)
	}
	return models.ImageAsset{ID: id, Path: s.container + "/" + id, Raw: raw}, nil
}
