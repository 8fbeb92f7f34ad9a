package main

import "github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/cmd"

func main() {
	cmd.Execute()
}
