package docker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	output map[string]string
	err    error
	calls  []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	line := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, line)
	if r.err != nil {
		return "", r.err
	}
	return r.output[line], nil
}

func TestNetworkExists(t *testing.T) {
	run := &fakeRunner{output: map[string]string{
		"docker network ls --format {{.Name}}": "bridge\nhost\nstackup\n",
	}}
	c := NewClient(run)

	ok, err := c.NetworkExists(context.Background(), "stackup")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.NetworkExists(context.Background(), "stack")
	require.NoError(t, err)
	assert.False(t, ok, "prefix must not match")
}

func TestContainerRunning(t *testing.T) {
	run := &fakeRunner{output: map[string]string{
		"docker ps --filter name=stackup-panel --format {{.Names}}": "stackup-panel\n",
	}}
	ok, err := NewClient(run).ContainerRunning(context.Background(), "stackup-panel")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngineReady(t *testing.T) {
	assert.True(t, NewClient(&fakeRunner{output: map[string]string{}}).EngineReady(context.Background()))
	assert.False(t, NewClient(&fakeRunner{err: errors.New("not found")}).EngineReady(context.Background()))
}

func TestRunContainer_BuildsArguments(t *testing.T) {
	run := &fakeRunner{output: map[string]string{}}
	err := NewClient(run).RunContainer(context.Background(), RunOptions{
		Name:    "stackup-panel",
		Image:   "panel:latest",
		Network: "stackup",
		Restart: "unless-stopped",
		EnvFile: "/var/lib/stackup/panel.env",
		Ports:   map[string]string{"2053": "2053"},
	})
	require.NoError(t, err)
	require.Len(t, run.calls, 1)

	call := run.calls[0]
	assert.Contains(t, call, "docker run -d --name stackup-panel")
	assert.Contains(t, call, "--network stackup")
	assert.Contains(t, call, "--restart unless-stopped")
	assert.Contains(t, call, "--env-file /var/lib/stackup/panel.env")
	assert.Contains(t, call, "-p 2053:2053")
	assert.True(t, strings.HasSuffix(call, "panel:latest"), "image is the final argument")
}

func TestCreateNetwork(t *testing.T) {
	run := &fakeRunner{output: map[string]string{}}
	require.NoError(t, NewClient(run).CreateNetwork(context.Background(), "stackup", "172.30.0.0/24"))
	assert.Equal(t, []string{
		"docker network create --driver bridge --subnet 172.30.0.0/24 stackup",
	}, run.calls)
}
