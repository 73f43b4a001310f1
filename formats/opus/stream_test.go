// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/oggopus/internal/audiotest"
)

func headPacket(serial uint32, channels, preSkip int) Packet {
	return Packet{Serial: serial, BOS: true, Data: audiotest.OpusHead(channels, preSkip)}
}

func tagsPacket(serial uint32) Packet {
	return Packet{Serial: serial, Data: audiotest.OpusTags("v", nil)}
}

func TestMachine_Transitions(t *testing.T) {
	t.Parallel()

	codec := newFakeCodec()
	m := newMachine(codec, discardLogger())
	defer m.release()

	assert.Equal(t, stateIdle, m.ctx.state())

	require.NoError(t, m.handle(headPacket(1, 2, 0)))
	assert.Equal(t, stateAwaitingTags, m.ctx.state())
	assert.Equal(t, 1, m.totalLinks)
	assert.Len(t, m.buf, MaxFrameSize*2)

	require.NoError(t, m.handle(tagsPacket(1)))
	assert.Equal(t, stateStreaming, m.ctx.state())
	assert.True(t, m.ctx.hasTags)

	require.NoError(t, m.handle(Packet{Serial: 1, Data: audioPacket(1), Granule: 960}))
	assert.Equal(t, stateStreaming, m.ctx.state())
	assert.Len(t, m.out.Samples, 960*2)

	require.NoError(t, m.handle(Packet{Serial: 1, Data: audioPacket(2), Granule: 1920, EOS: true}))
	assert.Equal(t, stateClosed, m.ctx.state())
	assert.Nil(t, m.ctx.dec)
	assert.Equal(t, []int{1}, codec.closes())

	// closed -> awaiting tags only through a new identification header
	require.NoError(t, m.handle(Packet{Serial: 1, Data: audioPacket(3), Granule: 2880}))
	assert.Equal(t, stateClosed, m.ctx.state())
	assert.Len(t, m.out.Samples, 1920*2)

	require.NoError(t, m.handle(headPacket(2, 2, 0)))
	assert.Equal(t, stateAwaitingTags, m.ctx.state())
	assert.Equal(t, 2, m.totalLinks)
}

func TestMachine_PageEnd(t *testing.T) {
	t.Parallel()

	codec := newFakeCodec()
	m := newMachine(codec, discardLogger())
	defer m.release()

	require.NoError(t, m.handle(headPacket(1, 1, 0)))
	require.NoError(t, m.handle(tagsPacket(1)))

	// plain pages and EOS pages of other serials leave the link open
	m.pageEnd(&Page{Serial: 1})
	m.pageEnd(&Page{Serial: 2, EOS: true})
	assert.Equal(t, stateStreaming, m.ctx.state())

	m.pageEnd(&Page{Serial: 1, EOS: true})
	assert.Equal(t, stateClosed, m.ctx.state())
	assert.True(t, m.ctx.closedByEOS)
	assert.True(t, m.out.Links[0].EndedByEOS)
	assert.Equal(t, []int{1}, codec.closes())

	// a second EOS page is a no-op
	m.pageEnd(&Page{Serial: 1, EOS: true})
	assert.Equal(t, []int{1}, codec.closes())
}

func TestMachine_SkipsForeignPackets(t *testing.T) {
	t.Parallel()

	m := newMachine(newFakeCodec(), discardLogger())
	defer m.release()

	// nothing active yet
	require.NoError(t, m.handle(Packet{Serial: 3, Data: audioPacket(1)}))
	assert.Equal(t, stateIdle, m.ctx.state())
	assert.Zero(t, m.totalLinks)

	require.NoError(t, m.handle(headPacket(1, 1, 0)))
	require.NoError(t, m.handle(Packet{Serial: 3, Data: []byte("OpusTags........")}))
	assert.False(t, m.ctx.hasTags)
	assert.Equal(t, int64(1), m.ctx.packetCount)
}

func TestMachine_HeadNeedsBOS(t *testing.T) {
	t.Parallel()

	m := newMachine(newFakeCodec(), discardLogger())
	defer m.release()

	pkt := headPacket(1, 1, 0)
	pkt.BOS = false
	require.NoError(t, m.handle(pkt))
	assert.Zero(t, m.totalLinks)

	require.NoError(t, m.handle(Packet{Serial: 1, BOS: true, Data: []byte("OpusHea")}))
	assert.Zero(t, m.totalLinks)
}

func TestMachine_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	codec := newFakeCodec()
	m := newMachine(codec, discardLogger())
	require.NoError(t, m.handle(headPacket(1, 1, 0)))

	m.release()
	m.release()
	assert.Nil(t, m.buf)
	assert.Equal(t, []int{1}, codec.closes())
}

func TestStreamState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", stateIdle.String())
	assert.Equal(t, "awaiting-tags", stateAwaitingTags.String())
	assert.Equal(t, "streaming", stateStreaming.String())
	assert.Equal(t, "closed", stateClosed.String())
	assert.Equal(t, "streamState(9)", streamState(9).String())
}
