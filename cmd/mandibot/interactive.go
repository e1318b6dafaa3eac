package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"mandibot/internal/chat"
)

const banner = `mandibot %s - UP mandi price assistant
Ask about crop prices, e.g. "price of wheat in agra today".
Commands: /reset (start over), /exit
`

// runInteractive runs the line-based chat loop until EOF, /exit, or signal.
func runInteractive(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf(banner, version)

	conversationID := chat.NewConversationID()
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("you> ")
		var line string
		var open bool
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case line, open = <-lines:
			if !open {
				fmt.Println()
				return scanner.Err()
			}
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/exit" || line == "/quit":
			return nil
		case line == "/reset":
			a.service.Reset(conversationID)
			conversationID = chat.NewConversationID()
			fmt.Println("bot> Okay, starting over. What would you like to know?")
			continue
		}

		reply, err := a.service.HandleMessage(ctx, conversationID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("bot> Something went wrong: %v\n", err)
			continue
		}
		printReply(reply)
	}
}

func printReply(reply string) {
	for i, line := range strings.Split(reply, "\n") {
		if i == 0 {
			fmt.Printf("bot> %s\n", line)
		} else {
			fmt.Printf("     %s\n", line)
		}
	}
}
