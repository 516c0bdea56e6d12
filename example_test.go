package mailprobe_test

import (
	"fmt"

	"github.com/probelabs/mailprobe"
)

func ExampleNew() {
	v := mailprobe.New().
		WithSMTP(mailprobe.SMTPOptions{
			MailFrom:      "verify@myapp.com",
			LocalHostname: "myapp.com",
		}).
		WithWorkers(10)

	_ = v // v.VerifyBatch(ctx, addresses) probes the domains' servers
	fmt.Println("verifier ready")
	// Output: verifier ready
}

func ExampleValidSyntax() {
	fmt.Println(mailprobe.ValidSyntax("user@example.com"))
	fmt.Println(mailprobe.ValidSyntax("not-an-email"))
	// Output:
	// true
	// false
}

func ExampleGuess() {
	candidates := mailprobe.Guess("example.com", mailprobe.Person{
		First: "John",
		Last:  "Doe",
	})

	for _, c := range candidates[:4] {
		fmt.Println(c)
	}
	// Output:
	// john@example.com
	// doe@example.com
	// johndoe@example.com
	// john.doe@example.com
}
