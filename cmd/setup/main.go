// Command setup interactively collects the credentials the phone system
// needs and writes them to .env.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var phoneCleaner = regexp.MustCompile(`[\s\-\(\)]`)

func main() {
	fmt.Println("Frontdesk setup wizard")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("You'll need:")
	fmt.Println("  - Twilio Account SID, Auth Token, and Phone Number")
	fmt.Println("  - Your phone number (for SMS alerts)")
	fmt.Println("  - An Anthropic or OpenAI API key")
	fmt.Println()

	in := bufio.NewReader(os.Stdin)

	fmt.Println("Step 1: Twilio (https://console.twilio.com)")
	sid := prompt(in, "Twilio Account SID (starts with 'AC'): ", func(s string) (string, error) {
		if !strings.HasPrefix(s, "AC") || len(s) < 20 {
			return "", fmt.Errorf("should start with 'AC'")
		}
		return s, nil
	})
	token := prompt(in, "Twilio Auth Token: ", func(s string) (string, error) {
		if len(s) < 20 {
			return "", fmt.Errorf("token too short")
		}
		return s, nil
	})
	twilioPhone := prompt(in, "Twilio Phone Number (+12025551234): ", validatePhone)

	fmt.Println()
	fmt.Println("Step 2: Your phone number (escalation SMS go here)")
	operatorPhone := prompt(in, "Your Phone Number (+12025551234): ", validatePhone)

	fmt.Println()
	fmt.Println("Step 3: Completion service")
	provider := prompt(in, "Provider [anthropic/openai] (default anthropic): ", func(s string) (string, error) {
		switch s {
		case "", "anthropic":
			return "anthropic", nil
		case "openai":
			return "openai", nil
		}
		return "", fmt.Errorf("choose anthropic or openai")
	})
	keyPrefix := "sk-ant-"
	if provider == "openai" {
		keyPrefix = "sk-"
	}
	apiKey := prompt(in, fmt.Sprintf("%s API key (%s...): ", provider, keyPrefix), func(s string) (string, error) {
		if !strings.HasPrefix(s, keyPrefix) || len(s) < 20 {
			return "", fmt.Errorf("should start with '%s'", keyPrefix)
		}
		return s, nil
	})

	env := map[string]string{
		"TWILIO_ACCOUNT_SID":    sid,
		"TWILIO_AUTH_TOKEN":     token,
		"TWILIO_PHONE_NUMBER":   twilioPhone,
		"OPERATOR_PHONE_NUMBER": operatorPhone,
		"DEFAULT_PROVIDER":      provider,
		"ADMIN_TOKEN":           randomToken(),
	}
	if provider == "openai" {
		env["OPENAI_API_KEY"] = apiKey
	} else {
		env["ANTHROPIC_API_KEY"] = apiKey
	}

	if err := godotenv.Write(env, ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write .env: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Setup complete. Configuration saved to .env")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. go run ./cmd/server")
	fmt.Println("  2. Expose it publicly (e.g. ngrok http 10000)")
	fmt.Println("  3. Point your Twilio number's voice webhook at https://your-url/voice")
	fmt.Printf("  4. Test: call %s\n", twilioPhone)
}

func prompt(in *bufio.Reader, label string, validate func(string) (string, error)) string {
	for {
		fmt.Print(label)
		line, err := in.ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "input closed")
			os.Exit(1)
		}
		value := strings.TrimSpace(line)
		if value == "" && !strings.Contains(label, "default") {
			fmt.Println("Required field.")
			continue
		}
		out, err := validate(value)
		if err != nil {
			fmt.Printf("Invalid input: %v\n", err)
			continue
		}
		return out
	}
}

// validatePhone normalizes to E.164, accepting bare 10-digit US numbers.
func validatePhone(s string) (string, error) {
	cleaned := phoneCleaner.ReplaceAllString(s, "")
	if strings.HasPrefix(cleaned, "+") && len(cleaned) >= 11 && len(cleaned) <= 16 {
		return cleaned, nil
	}
	if len(cleaned) == 10 && isDigits(cleaned) {
		return "+1" + cleaned, nil
	}
	return "", fmt.Errorf("use format +1234567890")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func randomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
