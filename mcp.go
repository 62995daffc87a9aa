package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// NewCardMCPServer exposes the card lookup as the get_card_info MCP tool.
func NewCardMCPServer(finder CardFinder, log *zerolog.Logger) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"MTG Card Tool",
		version,
		server.WithRecovery(),
	)

	cardInfoTool := mcp.NewTool("get_card_info",
		mcp.WithDescription("Look up a Magic: The Gathering card by name and return its mana cost, type line, rules text, power, toughness and image URL"),
		mcp.WithString("card_name",
			mcp.Required(),
			mcp.Description("Card name to search for (e.g., 'Black Lotus')"),
		),
	)
	mcpServer.AddTool(cardInfoTool, handleGetCardInfo(finder, log))

	return mcpServer
}

func handleGetCardInfo(finder CardFinder, log *zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cardName, err := request.RequireString("card_name")
		if err != nil {
			log.Error().Err(err).Str("tool", "get_card_info").Msg("Missing card_name parameter")
			return mcp.NewToolResultError(msgMissingCardName), nil
		}

		log.Info().Str("tool", "get_card_info").Str("card_name", cardName).Msg("Looking up card")

		card, found := finder.Find(ctx, cardName)
		if !found {
			return mcp.NewToolResultError(notFoundMessage(cardName)), nil
		}

		payload, err := json.Marshal(card)
		if err != nil {
			return nil, fmt.Errorf("failed to encode card: %w", err)
		}

		return mcp.NewToolResultText(string(payload)), nil
	}
}
