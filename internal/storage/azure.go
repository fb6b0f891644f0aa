package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"
)

// AzureArchive uploads scan run summaries to Azure Blob Storage. The archive
// is append-only: summaries are written and listed, never rewritten.
type AzureArchive struct {
	client        *azblob.Client
	containerName string
}

var _ ReportArchive = (*AzureArchive)(nil)

// NewAzureArchive creates an archive client backed by managed identity.
func NewAzureArchive(accountName, containerName string) (*AzureArchive, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClient(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	archive := &AzureArchive{
		client:        client,
		containerName: containerName,
	}

	if err := archive.ensureContainer(); err != nil {
		return nil, err
	}

	return archive, nil
}

func (a *AzureArchive) ensureContainer() error {
	_, err := a.client.CreateContainer(context.Background(), a.containerName, nil)
	if err != nil {
		if !strings.Contains(err.Error(), "ContainerAlreadyExists") {
			return fmt.Errorf("failed to create container %s: %w", a.containerName, err)
		}
		logrus.Debugf("Archive container %s already exists", a.containerName)
	}
	return nil
}

// Store uploads one run summary.
func (a *AzureArchive) Store(name string, data []byte) error {
	_, err := a.client.UploadBuffer(context.Background(), a.containerName, name, data, &azblob.UploadBufferOptions{
		BlockSize:   int64(1024 * 1024),
		Concurrency: 3,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}

	logrus.Debugf("Archived scan report %s", name)
	return nil
}

// List returns the names of archived summaries under a prefix.
func (a *AzureArchive) List(prefix string) ([]string, error) {
	var names []string
	pager := a.client.NewListBlobsFlatPager(a.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to list archived reports: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}

	return names, nil
}
