//go:build integration
// +build integration

package testinfra

import (
	"context"
	"fmt"
	"strings"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type WiremockContainer struct {
	Container testcontainers.Container
	BaseURL   string
}

// NewWiremock starts WireMock loaded with mappings, keyed by file name (e.g. "users.json").
func NewWiremock(ctx context.Context, mappings map[string]string) (*WiremockContainer, error) {
	files := make([]testcontainers.ContainerFile, 0, len(mappings))
	for name, body := range mappings {
		files = append(files, testcontainers.ContainerFile{
			Reader:            strings.NewReader(body),
			ContainerFilePath: "/home/wiremock/mappings/" + name,
			FileMode:          0o644,
		})
	}

	req := testcontainers.ContainerRequest{
		Image:        "wiremock/wiremock:3.9.1",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/__admin/mappings").WithPort("8080/tcp"),
		Cmd:          []string{"--disable-gzip", "--verbose"},
		Files:        files,
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start wiremock container: %w", err)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "8080/tcp")

	return &WiremockContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

func (c *WiremockContainer) Cleanup(ctx context.Context) {
	if c.Container != nil {
		_ = c.Container.Terminate(ctx)
	}
}
