package collect_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/execctx"
	"github.com/zackangelo/phoebus/internal/collect"
	"github.com/zackangelo/phoebus/schema"
)

func TestCollect(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "collect Suite")
}

const collectTestSchema = `
type Query {
  person: Person
  pet: Pet
}

type Person {
  firstName: String
  lastName: String
}

interface Pet {
  name: String
}

type Dog implements Pet {
  name: String
  dogBreed: String
}

type Cat implements Pet {
  name: String
  catBreed: String
}
`

func collectFor(sch *schema.Schema, query string, runtimeTypeName string) ([]*collect.Group, error) {
	doc, err := gqlparser.LoadQuery(sch.Raw(), query)
	if err != nil {
		return nil, err
	}
	op := doc.Operations[0]
	ec := execctx.NewExecCtx(sch, doc, op, nil, runtimeTypeName)
	return collect.CollectFields(ec, sch, runtimeTypeName, op.SelectionSet)
}

var _ = Describe("CollectFields", func() {
	var sch *schema.Schema

	BeforeEach(func() {
		var err error
		sch, err = schema.Load("collect-test", collectTestSchema)
		Expect(err).NotTo(HaveOccurred())
	})

	It("groups fields in first-seen order", func() {
		groups, err := collectFor(sch, `{ person { firstName lastName } }`, "Query")
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].ResponseKey).To(Equal("person"))

		sub, err := collect.CollectFields(
			execCtxFor(sch, groups[0]),
			sch,
			"Person",
			groups[0].Fields[0].SelectionSet,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(sub).To(HaveLen(2))
		Expect(sub[0].ResponseKey).To(Equal("firstName"))
		Expect(sub[1].ResponseKey).To(Equal("lastName"))
	})

	It("merges repeated response keys into one group with every occurrence", func() {
		groups, err := collectFor(sch, `{
			person {
				firstName
			}
			person {
				lastName
			}
		}`, "Query")
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].Fields).To(HaveLen(2))
	})

	It("filters inline fragments by type condition against the runtime type", func() {
		groups, err := collectFor(sch, `{
			pet {
				... on Dog { dogBreed }
				... on Cat { catBreed }
				name
			}
		}`, "Query")
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))

		sub, err := collect.CollectFields(
			execCtxFor(sch, groups[0]),
			sch,
			"Dog",
			groups[0].Fields[0].SelectionSet,
		)
		Expect(err).NotTo(HaveOccurred())

		keys := make([]string, len(sub))
		for i, g := range sub {
			keys[i] = g.ResponseKey
		}
		Expect(keys).To(ConsistOf("dogBreed", "name"))
	})

	It("honors @skip over a selection", func() {
		groups, err := collectFor(sch, `{ person { firstName @skip(if: true) lastName } }`, "Query")
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))

		sub, err := collect.CollectFields(
			execCtxFor(sch, groups[0]),
			sch,
			"Person",
			groups[0].Fields[0].SelectionSet,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(sub).To(HaveLen(1))
		Expect(sub[0].ResponseKey).To(Equal("lastName"))
	})

	It("rejects an unknown fragment spread", func() {
		_, err := collectFor(sch, `{ person { ...MissingFragment } }`, "Query")
		Expect(err).To(HaveOccurred())
	})

	It("does not revisit a fragment spread more than once", func() {
		doc, loadErrs := gqlparser.LoadQuery(sch.Raw(), `
			fragment Names on Person { firstName }
			{ person { ...Names ...Names } }
		`)
		Expect(loadErrs).To(BeEmpty())
		op := doc.Operations[0]
		ec := execctx.NewExecCtx(sch, doc, op, nil, "Query")

		groups, err := collect.CollectFields(ec, sch, "Query", op.SelectionSet)
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))

		sub, err := collect.CollectFields(
			ec,
			sch,
			"Person",
			groups[0].Fields[0].SelectionSet,
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(sub).To(HaveLen(1))
		Expect(sub[0].Fields).To(HaveLen(1))
	})
})

func execCtxFor(sch *schema.Schema, g *collect.Group) *execctx.ExecCtx {
	doc := &ast.QueryDocument{}
	op := &ast.OperationDefinition{Operation: ast.Query, SelectionSet: g.Fields[0].SelectionSet}
	return execctx.NewExecCtx(sch, doc, op, nil, "Person")
}
