package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

var baseURL = "http://localhost:3000/api"

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 3 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var envelope map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return resp, nil, err
	}
	return resp, envelope, nil
}

func data(envelope map[string]interface{}) map[string]interface{} {
	d, _ := envelope["data"].(map[string]interface{})
	return d
}

func sendChat(sessionID, text string) {
	resp, envelope, err := sendRequest("POST", "/chat/v1/send", map[string]interface{}{
		"session_id": sessionID,
		"chat":       text,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}
	color.Green("Status: %s", resp.Status)

	d := data(envelope)
	if d == nil {
		prettyPrint(envelope)
		return
	}
	fmt.Printf("Classification: %v\n", d["classification"])
	if reply, ok := d["reply"].(map[string]interface{}); ok {
		fmt.Printf("Reply: %v\n", reply["content"])
		if products, ok := reply["products"].([]interface{}); ok {
			fmt.Printf("Products: %d\n", len(products))
		}
	}
}

func main() {
	if v := os.Getenv("SOLEMATE_API"); v != "" {
		baseURL = v
	}
	color.Cyan("Starting SoleMate chat API smoke test against %s\n", baseURL)

	color.Yellow("\n1. Create Session")
	resp, envelope, err := sendRequest("POST", "/chat/v1/session", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	sessionID, _ := data(envelope)["session_id"].(string)
	if sessionID == "" {
		prettyPrint(envelope)
		color.Red("No session id returned")
		os.Exit(1)
	}
	fmt.Printf("Session ID: %s\n", sessionID)

	color.Yellow("\n2. Greeting (fast path)")
	sendChat(sessionID, "hi")

	color.Yellow("\n3. Product search")
	sendChat(sessionID, "I need waterproof hiking boots under $150")

	color.Yellow("\n4. Off-topic")
	sendChat(sessionID, "What is the capital of France and how do I file my taxes?")

	color.Yellow("\n5. History")
	_, envelope, err = sendRequest("GET", "/chat/v1/history/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else if turns, ok := data(envelope)["turns"].([]interface{}); ok {
		fmt.Printf("Turns: %d\n", len(turns))
	}

	color.Yellow("\n6. Stats")
	_, envelope, err = sendRequest("GET", "/chat/v1/stats", nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		prettyPrint(data(envelope))
	}

	color.Yellow("\n7. Reset Session")
	resp, _, err = sendRequest("DELETE", "/chat/v1/session/"+sessionID, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
	}

	color.Cyan("\nSmoke test complete")
}
