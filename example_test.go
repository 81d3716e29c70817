package jsonkv_test

import (
	"fmt"
	"log"
	"os"

	"github.com/jpl-au/jsonkv"
)

func Example() {
	dir, _ := os.MkdirTemp("", "jsonkv-example")
	defer os.RemoveAll(dir)

	// Open or create a store; "database.json" is the default document
	store, err := jsonkv.Open(dir, jsonkv.Config{Cache: true})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	store.Set("name", "alice")
	store.Push("tags", "admin")

	name, _ := store.Get("name", nil)
	all, _ := store.All()
	fmt.Println(name)
	fmt.Println(jsonkv.ObjectValue(all))
	// Output:
	// "alice"
	// {"name":"alice","tags":["admin"]}
}

func ExampleDoc_Get() {
	dir, _ := os.MkdirTemp("", "jsonkv-example")
	defer os.RemoveAll(dir)

	store, _ := jsonkv.Open(dir, jsonkv.Config{})
	defer store.Close()

	// A missing key yields the fallback
	v, _ := store.Get("theme", "light")
	fmt.Println(v)
	// Output: "light"
}

func ExampleDoc_Add() {
	dir, _ := os.MkdirTemp("", "jsonkv-example")
	defer os.RemoveAll(dir)

	store, _ := jsonkv.Open(dir, jsonkv.Config{})
	defer store.Close()

	store.Add("visits", 5)
	n, _ := store.Multiply("visits", 3)
	fmt.Println(n)

	_, err := store.Divide("visits", 0, false)
	fmt.Println(err)
	// Output:
	// 15
	// jsonkv: divide: divide by zero
}

func ExampleDoc_Filter() {
	dir, _ := os.MkdirTemp("", "jsonkv-example")
	defer os.RemoveAll(dir)

	store, _ := jsonkv.Open(dir, jsonkv.Config{})
	defer store.Close()

	store.SetMany(map[string]any{"apple": 3, "banana": 12, "cherry": 40})

	big, _ := store.Filter(func(e jsonkv.Entry) bool {
		n, _ := e.Value.AsNumber()
		return n > 10
	})
	fmt.Println(big.Keys())
	// Output: [banana cherry]
}

func ExampleStore_Document() {
	dir, _ := os.MkdirTemp("", "jsonkv-example")
	defer os.RemoveAll(dir)

	store, _ := jsonkv.Open(dir, jsonkv.Config{})
	defer store.Close()

	store.Create("settings", map[string]any{"theme": "dark"}, false)
	settings := store.Document("settings")
	settings.Set("lang", "en")

	for name := range store.List() {
		fmt.Println(name)
	}
	keys, _ := settings.Keys()
	fmt.Println(keys)
	// Output:
	// database
	// settings
	// [theme lang]
}

func ExampleStore_On() {
	dir, _ := os.MkdirTemp("", "jsonkv-example")
	defer os.RemoveAll(dir)

	store, _ := jsonkv.Open(dir, jsonkv.Config{})
	defer store.Close()

	store.On(jsonkv.EventSet, func(ev jsonkv.Event) error {
		fmt.Printf("%s %s = %s\n", ev.Name, ev.Key, ev.Value)
		return nil
	})
	store.Set("a", 1)
	store.Set("b", []string{"x"})
	// Output:
	// set a = 1
	// set b = ["x"]
}
