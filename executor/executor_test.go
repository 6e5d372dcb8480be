package executor_test

import (
	"context"
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/zackangelo/phoebus/executor"
	"github.com/zackangelo/phoebus/resolve"
	"github.com/zackangelo/phoebus/value"
)

func TestExecutor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "executor Suite")
}

const testSchema = `
type Query {
  peopleCount: Int
  person: Person
}

type Mutation {
  ping: String
}

type Person {
  firstName: String
  lastName: String
  age: Int
  pets: [Pet]
}

interface Pet {
  name: String
}

type Dog implements Pet {
  name: String
  dogBreed: DogBreed
}

type Cat implements Pet {
  name: String
  catBreed: CatBreed
}

enum DogBreed {
  CHIHUAHUA
}

enum CatBreed {
  TABBY
}
`

type petResolver struct {
	typeName string
	name     string
	dogBreed string
	catBreed string
}

func (p petResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "name":
		return resolve.String(p.name), nil
	case "dogBreed":
		return resolve.EnumValue(p.dogBreed), nil
	case "catBreed":
		return resolve.EnumValue(p.catBreed), nil
	}
	return resolve.Null, nil
}

func (p petResolver) ResolveTypeName(ctx context.Context) (string, bool) {
	return p.typeName, true
}

type personResolver struct{}

func (personResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "firstName":
		return resolve.String("Zack"), nil
	case "lastName":
		return resolve.String("Angelo"), nil
	case "age":
		return resolve.Int(39), nil
	case "pets":
		return resolve.ObjectList([]petResolver{
			{typeName: "Dog", name: "Coco", dogBreed: "CHIHUAHUA"},
			{typeName: "Cat", name: "Nemo", catBreed: "TABBY"},
		}), nil
	}
	return resolve.Null, nil
}

type queryResolver struct{}

func (queryResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "peopleCount":
		return resolve.Int(42), nil
	case "person":
		return resolve.Object(personResolver{}), nil
	}
	return resolve.Null, nil
}

type mutationResolver struct{}

func (mutationResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	if fc.Name() == "ping" {
		return resolve.String("pong"), nil
	}
	return resolve.Null, nil
}

type failingResolver struct{}

func (failingResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	return resolve.Null, &resolve.ArgError{Name: fc.Name(), Reason: "boom"}
}

func runQuery(query string) *executor.Response {
	ex, err := executor.New("test", testSchema)
	Expect(err).NotTo(HaveOccurred())

	resp, err := ex.Run(context.Background(), query, queryResolver{}, "", nil)
	Expect(err).NotTo(HaveOccurred())
	return resp
}

func jsonOf(resp *executor.Response) string {
	data, err := json.Marshal(resp)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

var _ = Describe("Executor", func() {
	It("resolves a scalar root field", func() {
		resp := runQuery(`{ peopleCount }`)
		Expect(jsonOf(resp)).To(Equal(`{"data":{"peopleCount":42}}`))
	})

	It("resolves a nested object", func() {
		resp := runQuery(`{ person { firstName lastName age } }`)
		Expect(jsonOf(resp)).To(Equal(
			`{"data":{"person":{"firstName":"Zack","lastName":"Angelo","age":39}}}`))
	})

	It("resolves a polymorphic list with inline fragments", func() {
		resp := runQuery(`{ person { pets { __typename name ... on Dog { dogBreed } ... on Cat { catBreed } } } }`)
		Expect(jsonOf(resp)).To(Equal(
			`{"data":{"person":{"pets":[` +
				`{"__typename":"Dog","name":"Coco","dogBreed":"CHIHUAHUA"},` +
				`{"__typename":"Cat","name":"Nemo","catBreed":"TABBY"}` +
				`]}}}`))
	})

	It("preserves response key order for aliased duplicate fields", func() {
		resp := runQuery(`{ a: peopleCount b: peopleCount }`)
		Expect(jsonOf(resp)).To(Equal(`{"data":{"a":42,"b":42}}`))
	})

	It("honors @skip", func() {
		resp := runQuery(`{ peopleCount @skip(if: true) }`)
		Expect(jsonOf(resp)).To(Equal(`{"data":{}}`))
	})

	It("serves __schema introspection without leaking double-underscore types", func() {
		resp := runQuery(`{ __schema { types { name } } }`)
		Expect(resp.Data.Kind()).To(Equal(value.KindObject))

		schemaField, ok := resp.Data.Object().Get("__schema")
		Expect(ok).To(BeTrue())

		typesField, ok := schemaField.Object().Get("types")
		Expect(ok).To(BeTrue())

		names := map[string]bool{}
		for _, t := range typesField.List() {
			n, _ := t.Object().Get("name")
			names[n.String()] = true
		}
		for _, want := range []string{"Query", "Person", "Pet", "Dog", "Cat", "DogBreed", "CatBreed"} {
			Expect(names).To(HaveKey(want))
		}
		for name := range names {
			Expect(name).NotTo(HavePrefix("__"))
		}
	})

	It("dispatches mutation operations against the mutation root type", func() {
		ex, err := executor.New("test", testSchema)
		Expect(err).NotTo(HaveOccurred())

		resp, err := ex.Run(context.Background(), `mutation { ping }`, mutationResolver{}, "", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(jsonOf(resp)).To(Equal(`{"data":{"ping":"pong"}}`))
	})

	It("merges sub-selections of a repeated response key", func() {
		resp := runQuery(`{ person { pets { name } pets { __typename } } }`)
		Expect(jsonOf(resp)).To(Equal(
			`{"data":{"person":{"pets":[` +
				`{"name":"Coco","__typename":"Dog"},` +
				`{"name":"Nemo","__typename":"Cat"}` +
				`]}}}`))
	})

	It("null-propagates a non-nullable field failure to the nearest nullable ancestor", func() {
		ex, err := executor.New("test", `
			type Query { thing: Thing }
			type Thing { required: String! }
		`)
		Expect(err).NotTo(HaveOccurred())

		resp, err := ex.Run(context.Background(), `{ thing { required } }`, queryWithThing{}, "", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Data.Kind()).To(Equal(value.KindObject))

		thingField, ok := resp.Data.Object().Get("thing")
		Expect(ok).To(BeTrue())
		Expect(thingField.IsNull()).To(BeTrue())
		Expect(resp.Errors).To(HaveLen(1))
	})
})

type thingResolver struct{}

func (thingResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	return failingResolver{}.ResolveField(ctx, fc)
}

type queryWithThing struct{}

func (queryWithThing) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	if fc.Name() == "thing" {
		return resolve.Object(thingResolver{}), nil
	}
	return resolve.Null, nil
}
