package jsontext

import (
	"iter"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflex-lang/reflex/runtime/rtti"
)

type date struct {
	Day, Month, Year int
}

type person struct {
	Name   string
	Born   date
	Tags   []string
	Secret string
}

type link struct {
	Label string
	Next  *link
}

type pair struct {
	Left  *date
	Right *date
}

type vehicle interface {
	Wheels() int
}

type car struct {
	Doors int
}

func (c *car) Wheels() int { return 4 }

type bike struct{}

func (b *bike) Wheels() int { return 2 }

type garage struct {
	Primary vehicle
}

// trolley satisfies vehicle with a value receiver; its slice field makes
// the value unusable as an identity key.
type trolley struct {
	routes []string
}

func (tr trolley) Wheels() int { return 6 }

type animal struct {
	Legs int
}

type dog struct {
	animal
	Name string
}

type ring struct {
	items []int
}

func (r *ring) Elements() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, v := range r.items {
			if !yield(v) {
				return
			}
		}
	}
}

func (r *ring) Insert(v int) { r.items = append(r.items, v) }
func (r *ring) Clear()       { r.items = nil }

func newTestRegistry(t *testing.T) *rtti.Registry {
	t.Helper()
	reg := rtti.NewRegistry()

	dc := rtti.Declare[date](reg)
	rtti.Member(dc, "day", func(d *date) *int { return &d.Day })
	rtti.Member(dc, "month", func(d *date) *int { return &d.Month })
	rtti.Member(dc, "year", func(d *date) *int { return &d.Year })

	rtti.DeclareSliceOf[string](reg)

	pc := rtti.Declare[person](reg)
	rtti.Member(pc, "name", func(p *person) *string { return &p.Name })
	rtti.Member(pc, "born", func(p *person) *date { return &p.Born })
	rtti.Member(pc, "tags", func(p *person) *[]string { return &p.Tags })
	rtti.Member(pc, "secret", func(p *person) *string { return &p.Secret }, rtti.NonStreamable{})

	lc := rtti.Declare[link](reg)
	rtti.Member(lc, "label", func(l *link) *string { return &l.Label })
	rtti.Member(lc, "next", func(l *link) **link { return &l.Next })

	prc := rtti.Declare[pair](reg)
	rtti.Member(prc, "left", func(p *pair) **date { return &p.Left })
	rtti.Member(prc, "right", func(p *pair) **date { return &p.Right })

	rtti.DeclareAbstract[vehicle](reg)
	cc := rtti.Declare[car](reg)
	rtti.Member(cc, "doors", func(c *car) *int { return &c.Doors })
	rtti.Declare[bike](reg)

	gc := rtti.Declare[garage](reg)
	rtti.Member(gc, "primary", func(g *garage) *vehicle { return &g.Primary })

	ac := rtti.Declare[animal](reg)
	rtti.Member(ac, "legs", func(a *animal) *int { return &a.Legs })
	dgc := rtti.Derives(rtti.Declare[dog](reg), ac, func(d *dog) *animal { return &d.animal })
	rtti.Member(dgc, "name", func(d *dog) *string { return &d.Name })

	rtti.DeclareCollection[ring, *ring, int](reg)

	return reg
}

func TestMarshal_FormattedLayout(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := Marshal(reg, &date{Day: 1, Month: 4, Year: 2011}, true)
	require.NoError(t, err)
	assert.Equal(t, "date {\n\t\"day\": 1,\n\t\"month\": 4,\n\t\"year\": 2011\n}", out)
}

func TestMarshal_CompactLayout(t *testing.T) {
	reg := newTestRegistry(t)

	out, err := Marshal(reg, &date{Day: 1, Month: 4, Year: 2011}, false)
	require.NoError(t, err)
	assert.Equal(t, `date {"day": 1,"month": 4,"year": 2011}`, out)
}

func TestRoundTrip_Struct(t *testing.T) {
	reg := newTestRegistry(t)
	in := &person{
		Name: "ada",
		Born: date{Day: 10, Month: 12, Year: 1815},
		Tags: []string{"math", "engines"},
	}

	for _, formatted := range []bool{true, false} {
		out, err := Marshal(reg, in, formatted)
		require.NoError(t, err)

		var got person
		require.NoError(t, Unmarshal(reg, out, &got))
		assert.Equal(t, in.Name, got.Name)
		assert.Equal(t, in.Born, got.Born)
		assert.Equal(t, in.Tags, got.Tags)
	}
}

func TestRoundTrip_CompactReadsBack(t *testing.T) {
	reg := newTestRegistry(t)
	in := &person{Name: "grace", Tags: []string{"compilers"}}

	out, err := Marshal(reg, in, false)
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")

	var got person
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, "grace", got.Name)
	assert.Equal(t, []string{"compilers"}, got.Tags)
}

func TestRoundTrip_TopLevelSlice(t *testing.T) {
	reg := newTestRegistry(t)
	in := []string{"a", "b", "c"}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)

	var got []string
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, in, got)
}

func TestRoundTrip_CustomCollection(t *testing.T) {
	reg := newTestRegistry(t)
	in := &ring{items: []int{3, 1, 2}}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	assert.Equal(t, "[\n\t3,\n\t1,\n\t2\n]", out)

	got := &ring{items: []int{9}}
	require.NoError(t, Unmarshal(reg, out, got))
	assert.Equal(t, []int{3, 1, 2}, got.items)
}

func TestRoundTrip_NilPointer(t *testing.T) {
	reg := newTestRegistry(t)
	in := &link{Label: "end"}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	assert.Contains(t, out, `"next": NULL`)

	got := &link{Next: &link{}}
	require.NoError(t, Unmarshal(reg, out, got))
	assert.Equal(t, "end", got.Label)
	assert.Nil(t, got.Next)
}

func TestRoundTrip_Cycle(t *testing.T) {
	reg := newTestRegistry(t)

	a := &link{Label: "a"}
	b := &link{Label: "b"}
	a.Next = b
	b.Next = a

	out, err := Marshal(reg, a, true)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `"$id"`))
	assert.Equal(t, 1, strings.Count(out, `"$ref"`))

	var got link
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, "a", got.Label)
	require.NotNil(t, got.Next)
	assert.Equal(t, "b", got.Next.Label)
	// the reference relinks to the same reconstructed instance
	assert.Same(t, &got, got.Next.Next)
}

func TestRoundTrip_SelfReference(t *testing.T) {
	reg := newTestRegistry(t)
	a := &link{Label: "loop"}
	a.Next = a

	out, err := Marshal(reg, a, true)
	require.NoError(t, err)

	var got link
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Same(t, &got, got.Next)
}

func TestRoundTrip_SharedInstance(t *testing.T) {
	reg := newTestRegistry(t)
	shared := &date{Day: 1, Month: 1, Year: 2000}
	in := &pair{Left: shared, Right: shared}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `"$id"`))
	assert.Equal(t, 1, strings.Count(out, `"$ref"`))

	var got pair
	require.NoError(t, Unmarshal(reg, out, &got))
	require.NotNil(t, got.Left)
	assert.Same(t, got.Left, got.Right)
	assert.Equal(t, *shared, *got.Left)
}

func TestMarshal_UnsharedInstancesCarryNoIdentity(t *testing.T) {
	reg := newTestRegistry(t)
	in := &pair{Left: &date{Day: 1}, Right: &date{Day: 2}}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	assert.NotContains(t, out, `"$id"`)
	assert.NotContains(t, out, `"$ref"`)
}

func TestRoundTrip_PolymorphicProperty(t *testing.T) {
	reg := newTestRegistry(t)
	in := &garage{Primary: &car{Doors: 5}}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	// the dynamic type is named in the stream
	assert.Contains(t, out, `"primary": car {`)

	var got garage
	require.NoError(t, Unmarshal(reg, out, &got))
	require.NotNil(t, got.Primary)
	c, ok := got.Primary.(*car)
	require.True(t, ok, "expected *car, got %T", got.Primary)
	assert.Equal(t, 5, c.Doors)
}

func TestRoundTrip_InheritedProperties(t *testing.T) {
	reg := newTestRegistry(t)
	in := &dog{animal: animal{Legs: 4}, Name: "rex"}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	// base properties first, through the recorded upcast
	assert.Equal(t, "dog {\n\t\"legs\": 4,\n\t\"name\": \"rex\"\n}", out)

	var got dog
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, 4, got.Legs)
	assert.Equal(t, "rex", got.Name)
}

func TestMarshal_ValueImplementorRejected(t *testing.T) {
	reg := newTestRegistry(t)
	in := &garage{Primary: trolley{routes: []string{"north"}}}

	_, err := Marshal(reg, in, true)
	var tm *rtti.TypeMismatchError
	require.ErrorAs(t, err, &tm)
}

func TestRoundTrip_NonStreamableSkipped(t *testing.T) {
	reg := newTestRegistry(t)
	in := &person{Name: "ada", Secret: "hush"}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "hush")

	got := person{Secret: "kept"}
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, "kept", got.Secret)
}

func TestUnmarshal_NonWritablePropertyDiscarded(t *testing.T) {
	reg := rtti.NewRegistry()
	type meter struct{ reading int64 }
	mc := rtti.Declare[meter](reg)
	rtti.Getter(mc, "reading", func(m *meter) int64 { return m.reading })

	out, err := Marshal(reg, &meter{reading: 88}, true)
	require.NoError(t, err)
	assert.Contains(t, out, `"reading": 88`)

	var got meter
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, int64(0), got.reading)
}

func TestUnmarshal_UnknownProperty(t *testing.T) {
	reg := newTestRegistry(t)

	var got date
	err := Unmarshal(reg, `date {"century": 19}`, &got)
	var ms *rtti.MalformedStreamError
	require.ErrorAs(t, err, &ms)
}

func TestUnmarshal_UnknownType(t *testing.T) {
	reg := newTestRegistry(t)

	var got date
	err := Unmarshal(reg, `ghost {}`, &got)
	var nd *rtti.NotDeclaredError
	require.ErrorAs(t, err, &nd)
	assert.Equal(t, "ghost", nd.TypeName)
}

func TestUnmarshal_DanglingReference(t *testing.T) {
	reg := newTestRegistry(t)

	var got link
	err := Unmarshal(reg, `link {"label": "a", "next": link {"$ref": "9"}}`, &got)
	var ms *rtti.MalformedStreamError
	require.ErrorAs(t, err, &ms)
}

func TestUnmarshal_DepthBounded(t *testing.T) {
	reg := newTestRegistry(t)

	chain := &link{Label: "1", Next: &link{Label: "2", Next: &link{Label: "3"}}}
	out, err := Marshal(reg, chain, true)
	require.NoError(t, err)

	var got link
	err = Unmarshal(reg, out, &got, rtti.WithMaxDepth(2))
	var ms *rtti.MalformedStreamError
	require.ErrorAs(t, err, &ms)

	require.NoError(t, Unmarshal(reg, out, &got, rtti.WithMaxDepth(10)))
	assert.Equal(t, "3", got.Next.Next.Label)
}

func TestRoundTrip_EmptyCollectionProperty(t *testing.T) {
	reg := newTestRegistry(t)
	in := &person{Name: "solo", Tags: []string{}}

	out, err := Marshal(reg, in, true)
	require.NoError(t, err)
	assert.Contains(t, out, `"tags": []`)

	got := person{Tags: []string{"stale"}}
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Empty(t, got.Tags)
}

func TestMarshal_ZeroPropertyType(t *testing.T) {
	reg := rtti.NewRegistry()
	type empty struct{}
	rtti.Declare[empty](reg)

	out, err := Marshal(reg, &empty{}, true)
	require.NoError(t, err)
	assert.Equal(t, "empty {\n}", out)

	var got empty
	require.NoError(t, Unmarshal(reg, out, &got))
}

func TestRoundTrip_StringEscaping(t *testing.T) {
	reg := newTestRegistry(t)
	in := &person{Name: "line\none \"two\" \\ three\tend"}

	out, err := Marshal(reg, in, false)
	require.NoError(t, err)

	var got person
	require.NoError(t, Unmarshal(reg, out, &got))
	assert.Equal(t, in.Name, got.Name)
}
