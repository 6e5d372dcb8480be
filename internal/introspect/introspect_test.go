package introspect_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/zackangelo/phoebus/executor"
	"github.com/zackangelo/phoebus/resolve"
	"github.com/zackangelo/phoebus/value"
)

func TestIntrospect(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "introspect Suite")
}

const introspectTestSchema = `
"""The root of every query."""
type Query {
  widget: Widget
}

"""A thing that can be queried."""
type Widget {
  id: String
  kind: WidgetKind
}

enum WidgetKind {
  GIZMO
  GADGET
}
`

type queryRoot struct{}

func (queryRoot) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	return resolve.Null, nil
}

func runIntrospection(query string) value.Value {
	ex, err := executor.New("introspect-test", introspectTestSchema)
	Expect(err).NotTo(HaveOccurred())

	resp, err := ex.Run(context.Background(), query, queryRoot{}, "", nil)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.Errors).To(BeEmpty())
	return resp.Data
}

func fieldsOf(obj *value.Object, key string) *value.Object {
	v, ok := obj.Get(key)
	Expect(ok).To(BeTrue())
	return v.Object()
}

var _ = Describe("introspection", func() {
	It("reports __typename for an object-typed field", func() {
		data := runIntrospection(`{ __typename }`)
		v, ok := data.Object().Get("__typename")
		Expect(ok).To(BeTrue())
		Expect(v.String()).To(Equal("Query"))
	})

	It("describes a named type through __type", func() {
		data := runIntrospection(`{ __type(name: "Widget") { name kind fields { name } } }`)
		widget := fieldsOf(data.Object(), "__type")

		name, _ := widget.Get("name")
		Expect(name.String()).To(Equal("Widget"))

		kind, _ := widget.Get("kind")
		Expect(kind.EnumValue().String()).To(Equal("OBJECT"))

		fields, _ := widget.Get("fields")
		names := []string{}
		for _, f := range fields.List() {
			n, _ := f.Object().Get("name")
			names = append(names, n.String())
		}
		Expect(names).To(ConsistOf("id", "kind"))
	})

	It("returns null for an unknown type name", func() {
		data := runIntrospection(`{ __type(name: "DoesNotExist") { name } }`)
		v, ok := data.Object().Get("__type")
		Expect(ok).To(BeTrue())
		Expect(v.IsNull()).To(BeTrue())
	})

	It("reports enum values for an enum type", func() {
		data := runIntrospection(`{ __type(name: "WidgetKind") { enumValues { name } } }`)
		kind := fieldsOf(data.Object(), "__type")
		values, _ := kind.Get("enumValues")

		names := []string{}
		for _, v := range values.List() {
			n, _ := v.Object().Get("name")
			names = append(names, n.String())
		}
		Expect(names).To(ConsistOf("GIZMO", "GADGET"))
	})

	It("describes the schema's query type through __schema", func() {
		data := runIntrospection(`{ __schema { queryType { name } } }`)
		sch := fieldsOf(data.Object(), "__schema")
		queryType := fieldsOf(sch, "queryType")

		name, _ := queryType.Get("name")
		Expect(name.String()).To(Equal("Query"))
	})

	It("excludes double-underscore meta-types from __schema.types", func() {
		data := runIntrospection(`{ __schema { types { name } } }`)
		sch := fieldsOf(data.Object(), "__schema")
		types, _ := sch.Get("types")

		for _, t := range types.List() {
			n, _ := t.Object().Get("name")
			Expect(n.String()).NotTo(HavePrefix("__"))
		}
	})
})
