package value_test

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/zackangelo/phoebus/value"
)

func TestValue(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "value Suite")
}

var _ = Describe("Value", func() {
	It("serializes objects preserving insertion order", func() {
		obj := value.NewObjectBuilder().
			Set(value.NewName("b"), value.NewInt(1)).
			Set(value.NewName("a"), value.NewInt(2)).
			Build()

		data, err := json.Marshal(value.NewObject(obj))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"b":1,"a":2}`))
	})

	It("serializes integers without becoming floats", func() {
		data, err := json.Marshal(value.NewInt(42))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("42"))
	})

	It("serializes floats without losing the decimal", func() {
		data, err := json.Marshal(value.NewFloat(3.5))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("3.5"))
	})

	It("serializes enum values as their name string", func() {
		data, err := json.Marshal(value.NewEnum(value.NewName("CHIHUAHUA")))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"CHIHUAHUA"`))
	})

	It("considers two values with different key order equal", func() {
		a := value.NewObjectBuilder().Set(value.NewName("x"), value.NewInt(1)).Set(value.NewName("y"), value.NewInt(2)).Build()
		b := value.NewObjectBuilder().Set(value.NewName("y"), value.NewInt(2)).Set(value.NewName("x"), value.NewInt(1)).Build()
		Expect(value.NewObject(a).Equal(value.NewObject(b))).To(BeTrue())
	})

	It("builds equal names from equal strings", func() {
		n1 := value.NewName("firstName")
		n2 := value.NewName("firstName")
		Expect(n1.Equal(n2)).To(BeTrue())
		Expect(n1.String()).To(Equal("firstName"))
	})
})
