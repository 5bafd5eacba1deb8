// Package azure implements store.Driver over an Azure Blob Storage
// container, grounded on original_source/jams-core/src/model_store/azure's
// container+account+key contract.
package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"jamsd/internal/store"
)

// Driver lists and fetches blobs from one Azure Blob container.
type Driver struct {
	client *container.Client
}

// Options configures the Azure client. Account and Key select shared-key
// auth (spec §6's STORAGE_ACCOUNT / STORAGE_ACCESS_KEY env vars); when Key
// is empty, New falls back to azidentity's default credential chain.
type Options struct {
	Account   string
	Key       string
	Container string
}

// New constructs a Driver for the given container.
func New(opts Options) (*Driver, error) {
	if opts.Container == "" {
		return nil, fmt.Errorf("azure store: container name is required")
	}
	account := firstNonEmpty(opts.Account, os.Getenv("STORAGE_ACCOUNT"))
	if account == "" {
		return nil, fmt.Errorf("azure store: account name is required")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)

	key := firstNonEmpty(opts.Key, os.Getenv("STORAGE_ACCESS_KEY"))
	var svc *azblob.Client
	if key != "" {
		cred, err := azblob.NewSharedKeyCredential(account, key)
		if err != nil {
			return nil, fmt.Errorf("azure store: shared key credential: %w", err)
		}
		svc, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("azure store: new client: %w", err)
		}
	} else {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azure store: default azure credential: %w", err)
		}
		svc, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("azure store: new client: %w", err)
		}
	}
	return &Driver{client: svc.ServiceClient().NewContainerClient(opts.Container)}, nil
}

// List enumerates every blob in the container.
func (d *Driver) List(ctx context.Context) ([]store.Artifact, error) {
	var out []store.Artifact
	pager := d.client.NewListBlobsFlatPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("azure store: list blobs: %w", err)
		}
		for _, b := range page.Segment.BlobItems {
			a := store.Artifact{Key: *b.Name}
			if b.Properties != nil {
				if b.Properties.ETag != nil {
					a.ETagOrMTime = string(*b.Properties.ETag)
				}
				if b.Properties.ContentLength != nil {
					a.Size = *b.Properties.ContentLength
				}
			}
			out = append(out, a)
		}
	}
	return out, nil
}

// Fetch downloads the blob named key.
func (d *Driver) Fetch(ctx context.Context, key string) ([]byte, error) {
	blobClient := d.client.NewBlobClient(key)
	resp, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("azure store: download blob %q: %w", key, err)
	}
	body := resp.NewRetryReader(ctx, nil)
	defer body.Close()
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return nil, fmt.Errorf("azure store: read blob %q: %w", key, err)
	}
	return buf.Bytes(), nil
}

// Exists checks blob presence via GetProperties.
func (d *Driver) Exists(ctx context.Context, key string) (bool, error) {
	blobClient := d.client.NewBlobClient(key)
	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		return false, nil
	}
	return true, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
