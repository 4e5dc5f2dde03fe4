// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package comment_test

import (
	"testing"

	"github.com/momeni/clean-rental/pkg/adapter/config/comment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const commented = `# storage settings
storage:
  # one of jsonfile, memory, postgres, or redis
  driver: jsonfile
brackets:
  # youngest
  - from: 18
    to: 25
  - from: 26
    to: 30
`

type settings struct {
	Storage struct {
		Driver string
	}
	Brackets []struct {
		From int
		To   int
	}
}

func TestRoundTrip(t *testing.T) {
	n := &yaml.Node{}
	require.NoError(t, yaml.Unmarshal([]byte(commented), n))
	c, err := comment.LoadFrom(n.Content[0])
	require.NoError(t, err)

	var s settings
	require.NoError(t, n.Decode(&s))
	s.Storage.Driver = "redis"
	out := &yaml.Node{}
	require.NoError(t, out.Encode(s))
	require.NoError(t, c.SaveInto(out))
	b, err := yaml.Marshal(out)
	require.NoError(t, err)

	text := string(b)
	assert.Contains(t, text, "# storage settings")
	assert.Contains(t, text, "# one of jsonfile, memory, postgres, or redis\n")
	assert.Contains(t, text, "driver: redis")
	assert.Contains(t, text, "# youngest\n")
}

func TestNilCommentIsNoOp(t *testing.T) {
	var c *comment.Comment
	assert.NoError(t, c.SaveInto(&yaml.Node{Kind: yaml.MappingNode}))
}

func TestKindMismatch(t *testing.T) {
	n := &yaml.Node{}
	require.NoError(t, yaml.Unmarshal([]byte("- a\n- b\n"), n))
	c, err := comment.LoadFrom(n.Content[0])
	require.NoError(t, err)
	assert.Error(t, c.SaveInto(&yaml.Node{Kind: yaml.MappingNode}))

	_, err = comment.LoadFrom(&yaml.Node{Kind: yaml.ScalarNode})
	assert.Error(t, err)
}
