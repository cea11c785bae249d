package db

import (
	"log"
	"os"
	"strconv"

	"github.com/jsphweid/handex/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const metadataTable = "handex-metadata"

// GetMidiMetadatas looks up song metadata for uploaded filenames. The
// lookup only runs when HANDEX_METADATA_ENDPOINT points at a DynamoDB
// endpoint; otherwise, and on any lookup failure, the result is simply
// empty so arranging never depends on metadata being reachable.
func GetMidiMetadatas(filenames []string) map[string]model.MidiMetadata {
	if len(filenames) > 10 {
		panic("Not supposed to pass in more than 10 filenames!")
	}

	res := make(map[string]model.MidiMetadata)

	endpoint := os.Getenv("HANDEX_METADATA_ENDPOINT")
	if endpoint == "" || len(filenames) == 0 {
		return res
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		log.Printf("could not create a DynamoDB session: %v", err)
		return res
	}

	client := dynamodb.New(session)
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			metadataTable: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		log.Printf("metadata lookup failed: %v", err)
		return res
	}

	for _, v := range dbres.Responses[metadataTable] {
		var m model.MidiMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			m.Year = uint(year)
		}
		if v["Artist"] != nil && v["Artist"].S != nil {
			m.Artist = *v["Artist"].S
		}
		if v["Release"] != nil && v["Release"].S != nil {
			m.Release = *v["Release"].S
		}
		if v["Title"] != nil && v["Title"].S != nil {
			m.Title = *v["Title"].S
		}
		if v["PK"] != nil && v["PK"].S != nil {
			res[*v["PK"].S] = m
		}
	}

	return res
}
