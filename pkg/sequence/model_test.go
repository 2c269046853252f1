package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glass(thi float64) *Gap {
	return &Gap{Thickness: thi, Medium: Medium{Name: "N-BK7", Index: 1.5168}}
}

func air(thi float64) *Gap {
	return &Gap{Thickness: thi, Medium: Air()}
}

// singlet returns Obj / lens / Img: the minimal real system.
func singlet() *Model {
	m := NewObjectImage()
	m.Insert(1, NewInterface(0.02), glass(4))
	m.Insert(2, NewInterface(-0.02), air(10))
	return m
}

func TestSeqStr(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Model
		want  string
	}{
		{
			name:  "object image only",
			build: NewObjectImage,
			want:  "dad",
		},
		{
			name:  "singlet",
			build: singlet,
			want:  "daigiad",
		},
		{
			name: "mirror",
			build: func() *Model {
				m := NewObjectImage()
				m.Insert(1, &Interface{Mode: Reflect, Profile: &Profile{}}, air(5))
				return m
			},
			want: "darad",
		},
		{
			name: "thin lens",
			build: func() *Model {
				m := NewObjectImage()
				m.Insert(1, &Interface{Mode: Transmit, Thin: true, Profile: &Profile{}}, air(5))
				return m
			},
			want: "datad",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build().SeqStr())
		})
	}
}

func TestZDirFlipsAfterReflection(t *testing.T) {
	m := NewObjectImage()
	m.Insert(1, NewInterface(0.01), glass(3))
	m.Insert(2, &Interface{Mode: Reflect, Profile: &Profile{}}, glass(3))
	m.Insert(3, NewInterface(0.01), air(20))

	require.Len(t, m.ZDirs, 4)
	assert.Equal(t, ZDirForward, m.ZDirs[0])
	assert.Equal(t, ZDirForward, m.ZDirs[1])
	assert.Equal(t, ZDirReverse, m.ZDirs[2], "direction flips after the reflector")
	assert.Equal(t, ZDirReverse, m.ZDirs[3])

	// past-the-end queries clamp to the final direction
	assert.Equal(t, ZDirReverse, m.ZDirAt(99))
}

func TestInsertRemove(t *testing.T) {
	m := singlet()
	require.Equal(t, 4, m.NumIfcs())

	s1 := m.Ifcs[1]
	require.NoError(t, m.Remove(1))
	assert.Equal(t, 3, m.NumIfcs())
	assert.Equal(t, -1, m.IndexOfIfc(s1))

	assert.Error(t, m.Remove(17))
	assert.Error(t, m.Insert(-1, NewInterface(0), nil))
}

func TestGlobalTransforms(t *testing.T) {
	m := NewObjectImage()
	m.Gaps[0].Thickness = 100
	m.Insert(1, &Interface{Mode: Reflect, Profile: &Profile{}}, air(40))

	tfrms := m.GlobalTransforms()
	require.Len(t, tfrms, 3)
	assert.Equal(t, 0.0, tfrms[0].Z)
	assert.Equal(t, 100.0, tfrms[1].Z)
	// the reflected gap accumulates backwards
	assert.Equal(t, 60.0, tfrms[2].Z)
}

func TestPath(t *testing.T) {
	m := singlet()
	segs := m.Path()
	require.Len(t, segs, 4)
	assert.Nil(t, segs[3].Gap, "image surface has no following gap")
	for i, seg := range segs {
		assert.Equal(t, i, seg.Idx)
		assert.Same(t, m.Ifcs[i], seg.Ifc)
	}
}
