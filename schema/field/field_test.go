package field_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/forge/schema/field"
)

type Hero struct {
	Name  string
	Level int
	Power float64
	Epic  bool
}

type rank string

// TestAttr tests the field.Attr builder.
func TestAttr(t *testing.T) {
	t.Parallel()

	t.Run("basic", func(t *testing.T) {
		desc := field.Attr("name", func(h *Hero) *string { return &h.Name }).Comment("Hero name").Descriptor()
		assert.Equal(t, "name", desc.Name)
		assert.Equal(t, reflect.TypeFor[Hero](), desc.Owner)
		assert.Equal(t, reflect.TypeFor[string](), desc.Type)
		assert.Equal(t, "Hero name", desc.Comment)
		assert.Nil(t, desc.Provider)
		assert.Nil(t, desc.Provide)
		assert.False(t, desc.Lambda)
		assert.NoError(t, desc.Err)
		assert.Equal(t, field.Of[Hero]("name"), desc.Ident())
		assert.Equal(t, "Hero.name", desc.Ident().String())
	})

	t.Run("accessors", func(t *testing.T) {
		desc := field.Attr("level", func(h *Hero) *int { return &h.Level }).Descriptor()
		h := &Hero{}
		assert.True(t, desc.IsZero(h))
		require.NoError(t, desc.Set(h, 3))
		assert.Equal(t, 3, h.Level)
		assert.Equal(t, 3, desc.Get(h))
		assert.False(t, desc.IsZero(h))
	})

	t.Run("converts", func(t *testing.T) {
		desc := field.Attr("level", func(h *Hero) *int { return &h.Level }).Descriptor()
		h := &Hero{}
		require.NoError(t, desc.Set(h, int64(7)))
		assert.Equal(t, 7, h.Level)
		require.NoError(t, desc.Set(h, 8.0))
		assert.Equal(t, 8, h.Level)
	})

	t.Run("mismatch", func(t *testing.T) {
		desc := field.Attr("level", func(h *Hero) *int { return &h.Level }).Descriptor()
		err := desc.Set(&Hero{}, "seven")
		require.Error(t, err)
		assert.ErrorIs(t, err, field.ErrTypeMismatch)
		assert.ErrorIs(t, desc.Set(struct{}{}, 1), field.ErrTypeMismatch)
	})

	t.Run("errors", func(t *testing.T) {
		assert.Error(t, field.Attr("", func(h *Hero) *int { return &h.Level }).Descriptor().Err)
		assert.Error(t, field.Attr[Hero, int]("level", nil).Descriptor().Err)
		assert.Error(t, field.Attr("n", func(n *int) *int { return n }).Descriptor().Err)
	})

	t.Run("fixed", func(t *testing.T) {
		desc := field.Attr("name", func(h *Hero) *string { return &h.Name }).Fixed("Conan").Descriptor()
		require.NotNil(t, desc.Provide)
		v, err := desc.Provide(&field.Env{Field: desc})
		require.NoError(t, err)
		assert.Equal(t, "Conan", v)
	})

	t.Run("lambda", func(t *testing.T) {
		desc := field.Attr("name", func(h *Hero) *string { return &h.Name }).
			From(field.Lambda(func(h *Hero) string { return "lvl" })).Descriptor()
		assert.True(t, desc.Lambda)
		keyed := field.Attr("name", func(h *Hero) *string { return &h.Name }).
			From(field.Key(field.Lambda(func(h *Hero) string { return "lvl" }))).Descriptor()
		assert.True(t, keyed.Lambda)
		plain := field.Attr("name", func(h *Hero) *string { return &h.Name }).
			From(field.Key(field.UID())).Descriptor()
		assert.False(t, plain.Lambda)
	})

	t.Run("clear_provider", func(t *testing.T) {
		desc := field.Attr("name", func(h *Hero) *string { return &h.Name }).Fixed("x").From(nil).Descriptor()
		assert.Nil(t, desc.Provider)
		assert.Nil(t, desc.Provide)
	})
}

// TestConvert tests value conversion between kinds.
func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		convert func() (any, error)
		want    any
		wantErr bool
	}{
		{
			name:    "identity",
			convert: func() (any, error) { return field.Convert[string]("a") },
			want:    "a",
		},
		{
			name:    "nil",
			convert: func() (any, error) { return field.Convert[int](nil) },
			want:    0,
		},
		{
			name:    "int_to_int8",
			convert: func() (any, error) { return field.Convert[int8](12) },
			want:    int8(12),
		},
		{
			name:    "int_to_float",
			convert: func() (any, error) { return field.Convert[float64](2) },
			want:    2.0,
		},
		{
			name:    "whole_float_to_int",
			convert: func() (any, error) { return field.Convert[int](4.0) },
			want:    4,
		},
		{
			name:    "fractional_float_to_int",
			convert: func() (any, error) { return field.Convert[int](4.5) },
			wantErr: true,
		},
		{
			name:    "int_overflows_uint8",
			convert: func() (any, error) { return field.Convert[uint8](300) },
			wantErr: true,
		},
		{
			name:    "negative_to_uint",
			convert: func() (any, error) { return field.Convert[uint](-1) },
			wantErr: true,
		},
		{
			name:    "int_overflows_int8",
			convert: func() (any, error) { return field.Convert[int8](-129) },
			wantErr: true,
		},
		{
			name:    "large_uint_to_int64",
			convert: func() (any, error) { return field.Convert[int64](uint64(1) << 63) },
			wantErr: true,
		},
		{
			name:    "float_overflows_int16",
			convert: func() (any, error) { return field.Convert[int16](70000.0) },
			wantErr: true,
		},
		{
			name:    "float64_overflows_float32",
			convert: func() (any, error) { return field.Convert[float32](1e300) },
			wantErr: true,
		},
		{
			name:    "uint8_bounds",
			convert: func() (any, error) { return field.Convert[uint8](255) },
			want:    uint8(255),
		},
		{
			name:    "uint_to_int",
			convert: func() (any, error) { return field.Convert[int](uint16(7)) },
			want:    7,
		},
		{
			name:    "int_to_string",
			convert: func() (any, error) { return field.Convert[string](65) },
			wantErr: true,
		},
		{
			name:    "string_to_bool",
			convert: func() (any, error) { return field.Convert[bool]("true") },
			wantErr: true,
		},
		{
			name:    "named_string",
			convert: func() (any, error) { return field.Convert[rank]("captain") },
			want:    rank("captain"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.convert()
			if tt.wantErr {
				assert.ErrorIs(t, err, field.ErrTypeMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestOf tests field references.
func TestOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Hero.name", field.Of[Hero]("name").String())
	assert.Equal(t, "<nil>.name", field.Ident{Name: "name"}.String())
}
