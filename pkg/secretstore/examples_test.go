package secretstore_test

import (
	"fmt"

	"github.com/systmms/linepush/pkg/secretstore"
)

func ExampleExtractField() {
	payload := `{"YOUR_CHANNEL_ACCESS_TOKEN": "example-token", "channel": {"id": 1656}}`

	token, _ := secretstore.ExtractField(payload, "YOUR_CHANNEL_ACCESS_TOKEN")
	channel, _ := secretstore.ExtractField(payload, ".channel.id")

	fmt.Println(token)
	fmt.Println(channel)
	// Output:
	// example-token
	// 1656
}
